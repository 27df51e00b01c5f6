package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
)

// DraftsHandler serves the saved-drafts view: list, delete, and the
// publish shortcut that skips the editor.
type DraftsHandler struct {
	orch *authoring.Orchestrator
}

func NewDraftsHandler(orch *authoring.Orchestrator) *DraftsHandler {
	return &DraftsHandler{orch: orch}
}

func (h *DraftsHandler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.orch.ListDrafts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleAuthoringError(w, r, err)
		return
	}
	if drafts == nil {
		drafts = []*models.Quiz{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}

func (h *DraftsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || !id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid draft ID", r))
		return
	}
	if err := h.orch.DeleteDraft(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		handleAuthoringError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish moves a draft into the published collection without opening
// the editor. The draft must already be complete.
func (h *DraftsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || !id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid draft ID", r))
		return
	}
	quiz, err := h.orch.PublishDraft(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		handleAuthoringError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}
