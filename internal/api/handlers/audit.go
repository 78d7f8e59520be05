package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/audit"
)

type AuditHandler struct {
	svc *audit.Service
}

func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := audit.Query{
		EntityType: r.URL.Query().Get("entityType"),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if id, err := uuid.Parse(r.URL.Query().Get("entityId")); err == nil {
		q.EntityID = &id
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, page)
}
