package handler

import (
	"net/http"

	"github.com/Dan9191/posts-service/internal/middleware"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.badInput(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, res)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.badInput(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, res)
}

// Profile returns the authenticated user
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), middleware.UserFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// Logout revokes the caller's token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Logout(r.Context(), middleware.UserFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, res)
}

// User returns the authenticated user without an envelope
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), middleware.UserFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, profile)
}
