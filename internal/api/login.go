package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mmopane/sitechat/internal/auth"
)

// AuthHandler serves the admin login/logout endpoints.
type AuthHandler struct {
	gate *auth.Gate
}

// NewAuthHandler creates the login handler.
func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// RegisterRoutes mounts the login endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/login", h.login)
	r.Post("/api/logout", h.logout)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.gate.Login(w, req.Password) {
		Error(w, http.StatusUnauthorized, "invalid password")
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(w)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
