package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/organisation"
)

type OrganisationHandler struct {
	svc *organisation.Service
}

func NewOrganisationHandler(svc *organisation.Service) *OrganisationHandler {
	return &OrganisationHandler{svc: svc}
}

func (h *OrganisationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid organisation ID"))
		return
	}

	org, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, org)
}

func (h *OrganisationHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid organisation ID"))
		return
	}

	users, err := h.svc.ListUsers(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, users)
}

func (h *OrganisationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid organisation ID"))
		return
	}

	var req organisation.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	member, err := h.svc.AddMember(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, member)
}
