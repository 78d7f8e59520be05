package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/models"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// sessionBody is what login, register and refresh return. The refresh token is
// set as the jid cookie and never appears here.
type sessionBody struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid body request"))
		return
	}

	sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSession(w, sess)
	writeData(w, http.StatusCreated, sessionBody{AccessToken: sess.AccessToken, User: sess.User})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid body request"))
		return
	}

	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSession(w, sess)
	writeData(w, http.StatusOK, sessionBody{AccessToken: sess.AccessToken, User: sess.User})
}

// Refresh rotates the session from the jid cookie. A missing cookie fails the
// same way as an invalid token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, apperr.Auth("Invalid refresh token"))
		return
	}

	sess, err := h.svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		http.SetCookie(w, auth.ClearRefreshCookie())
		writeError(w, err)
		return
	}

	h.setSession(w, sess)
	writeData(w, http.StatusOK, sessionBody{AccessToken: sess.AccessToken, User: sess.User})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Auth("Unauthorized"))
		return
	}

	if err := h.svc.Logout(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, auth.ClearRefreshCookie())
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) setSession(w http.ResponseWriter, sess *auth.Session) {
	http.SetCookie(w, auth.NewRefreshCookie(sess.RefreshToken, h.svc.RefreshTTL()))
}
