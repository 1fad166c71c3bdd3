package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/msidibe/gpr/auth"
	"github.com/msidibe/gpr/httpx"
	"github.com/msidibe/gpr/internal/services"
)

type AuthHandler struct {
	Svc *services.Facade
}

func NewAuthHandler(svc *services.Facade) *AuthHandler { return &AuthHandler{Svc: svc} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)
	// the historical front ends call logout as a plain GET
	mux.HandleFunc("GET /api/logout", h.logout)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/me", h.me)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	token, role, err := h.Svc.Login(r.Context(), strings.TrimSpace(body.Username), body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	auth.SetSessionCookie(w, token)
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "role": role})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromRequest(r); ok {
		h.Svc.Logout(token)
	}
	auth.ClearSessionCookie(w)
	httpx.OK(w)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.SessionFromContext(r.Context()); ok {
		httpx.JSON(w, http.StatusOK, map[string]any{"username": sess.Username, "role": sess.Role})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"username": nil, "role": nil})
}
