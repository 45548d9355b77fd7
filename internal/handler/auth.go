package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/contractpro/contractpro/internal/middleware"
	"github.com/contractpro/contractpro/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(authSvc service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Login rejected", slog.String("username", req.Username))
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, u)
}
