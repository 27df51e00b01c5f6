package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
	"quizforge-backend/internal/repository"
)

type SessionHandler struct {
	userRepo *repository.UserRepo
	jwtAuth  *middleware.JWTAuth
}

func NewSessionHandler(userRepo *repository.UserRepo, jwtAuth *middleware.JWTAuth) *SessionHandler {
	return &SessionHandler{userRepo: userRepo, jwtAuth: jwtAuth}
}

// Start consumes the role provider's output once at session start: a
// name, an email, and an externally chosen role. The role is recorded,
// not verified.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Name and email are required", r))
		return
	}
	if !req.Role.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown role", r))
		return
	}

	user, err := h.userRepo.UpsertSession(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start session", r))
		return
	}

	token, err := h.jwtAuth.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue token", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"user":         user,
	})
}

// Me returns the session user, including the configured subject list.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
