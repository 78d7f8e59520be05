package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/proposal"
)

type ProposalHandler struct {
	svc *proposal.Service
}

func NewProposalHandler(svc *proposal.Service) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.SubjectFromContext(r.Context())
	if actor == nil {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	var req proposal.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid body request"))
		return
	}

	created, err := h.svc.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid proposal ID"))
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, item)
}

func (h *ProposalHandler) ListByRfp(w http.ResponseWriter, r *http.Request) {
	rfpID, err := uuid.Parse(chi.URLParam(r, "rfpID"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid RFP ID"))
		return
	}

	items, err := h.svc.ListByRfp(r.Context(), rfpID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, items)
}

func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid proposal ID"))
		return
	}

	var upd proposal.Update
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

func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid proposal ID"))
		return
	}

	accepted, err := h.svc.Accept(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, accepted)
}

func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid proposal ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Proposal deleted")
}
