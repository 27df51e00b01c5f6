package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/collection"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
)

// QuizzesHandler serves the published collection.
type QuizzesHandler struct {
	repo *collection.Repo
	orch *authoring.Orchestrator
}

func NewQuizzesHandler(repo *collection.Repo, orch *authoring.Orchestrator) *QuizzesHandler {
	return &QuizzesHandler{repo: repo, orch: orch}
}

func (h *QuizzesHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.repo.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list quizzes", r))
		return
	}
	if quizzes == nil {
		quizzes = []*models.Quiz{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *QuizzesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}
	quiz, err := h.repo.GetByID(r.Context(), middleware.GetUserID(r.Context()), id)
	if errors.Is(err, collection.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz", r))
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// Edit loads a published quiz into the authoring editor. The identity is
// kept, so publishing from the editor replaces the quiz in place.
func (h *QuizzesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}
	userID := middleware.GetUserID(r.Context())

	quiz, err := h.repo.GetByID(r.Context(), userID, id)
	if errors.Is(err, collection.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz", r))
		return
	}

	state, err := h.orch.EditQuiz(userID, quiz)
	if err != nil {
		handleAuthoringError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *QuizzesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}
	if err := h.repo.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete quiz", r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
