package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/comment"
)

type CommentHandler struct {
	svc *comment.Service
}

func NewCommentHandler(svc *comment.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	var req comment.CreateRequest
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

func (h *CommentHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(chi.URLParam(r, "entityID"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid entity ID"))
		return
	}

	items, err := h.svc.ListByEntity(r.Context(), entityID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, items)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid comment ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Comment deleted")
}
