package handlers

import (
	"encoding/json"
	"net/http"

	"parish-backend/internal/models"
	"parish-backend/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	Service *services.UserService
	log     zerolog.Logger
}

func NewAuthHandler(s *services.UserService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		Service: s,
		log:     log,
	}
}

// Login handles admin authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResp)
}
