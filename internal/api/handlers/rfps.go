package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/rfp"
)

type RfpHandler struct {
	svc *rfp.Service
}

func NewRfpHandler(svc *rfp.Service) *RfpHandler {
	return &RfpHandler{svc: svc}
}

func (h *RfpHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	var req rfp.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid body request"))
		return
	}

	created, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

func (h *RfpHandler) List(w http.ResponseWriter, r *http.Request) {
	f := parseRfpFilter(r)

	page, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, page)
}

func (h *RfpHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid RFP ID"))
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, item)
}

func (h *RfpHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid RFP ID"))
		return
	}

	var upd rfp.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, apperr.Validation("Invalid body request"))
		return
	}

	updated, err := h.svc.Update(r.Context(), id, userID, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, updated)
}

func (h *RfpHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid RFP ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "RFP deleted")
}

func parseRfpFilter(r *http.Request) rfp.Filter {
	q := r.URL.Query()

	f := rfp.Filter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	if v, err := strconv.ParseFloat(q.Get("minBudget"), 64); err == nil {
		f.MinBudget = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxBudget"), 64); err == nil {
		f.MaxBudget = &v
	}
	if t, err := time.Parse(time.RFC3339, q.Get("startDate")); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("endDate")); err == nil {
		f.EndDate = &t
	}
	return f
}
