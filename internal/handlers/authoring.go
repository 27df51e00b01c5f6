package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
	"quizforge-backend/internal/repository"
)

// AuthoringHandler is the thin rendering-facing layer over the
// orchestrator: it decodes events, dispatches them, and returns the
// resulting session state.
type AuthoringHandler struct {
	orch           *authoring.Orchestrator
	userRepo       *repository.UserRepo
	uploadMaxBytes int64
}

func NewAuthoringHandler(orch *authoring.Orchestrator, userRepo *repository.UserRepo, uploadMaxBytes int) *AuthoringHandler {
	return &AuthoringHandler{orch: orch, userRepo: userRepo, uploadMaxBytes: int64(uploadMaxBytes)}
}

func (h *AuthoringHandler) respond(w http.ResponseWriter, r *http.Request, state authoring.State, err error) {
	if err != nil {
		handleAuthoringError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Start opens the authoring session at the three-way options menu.
func (h *AuthoringHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	subjects := []string{}
	if user, err := h.userRepo.GetByID(r.Context(), userID); err == nil {
		subjects = user.Subjects
	}

	state, err := h.orch.StartAuthoring(userID, subjects)
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.State(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

// StartManual opens a blank two-step wizard.
func (h *AuthoringHandler) StartManual(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.StartManual(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

// Generate runs the AI ingestion path and opens the editor over the
// candidate for review.
func (h *AuthoringHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	params := generator.Params{
		Topic:        req.Topic,
		NumQuestions: req.NumQuestions,
		Subject:      req.Subject,
		KeyStage:     req.KeyStage,
		Difficulty:   req.Difficulty,
	}
	state, err := h.orch.Generate(r.Context(), middleware.GetUserID(r.Context()), params)
	h.respond(w, r, state, err)
}

// Upload runs the file ingestion path. Multipart form, field "file".
func (h *AuthoringHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+4096)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("DOCUMENT_TOO_LARGE", "Uploaded file is too large", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Please select a file to upload", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.uploadMaxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read the file", r))
		return
	}
	if int64(len(data)) > h.uploadMaxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("DOCUMENT_TOO_LARGE", "Uploaded file is too large", r))
		return
	}

	state, err := h.orch.Upload(middleware.GetUserID(r.Context()), header.Filename, data)
	h.respond(w, r, state, err)
}

// Editor events

func (h *AuthoringHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var patch models.DetailsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	state, err := h.orch.UpdateDetails(middleware.GetUserID(r.Context()), patch)
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) UpdatePending(w http.ResponseWriter, r *http.Request) {
	var patch models.PendingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	state, err := h.orch.UpdatePending(middleware.GetUserID(r.Context()), patch)
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.AddQuestion(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.RemoveQuestion(middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.NextStep(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) Back(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.Back(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) Close(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.CloseEditor(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) ConfirmDiscard(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.ConfirmDiscard(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) CancelDiscard(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.CancelDiscard(middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.SaveDraft(r.Context(), middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

func (h *AuthoringHandler) SaveAndPublish(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.SaveAndPublish(r.Context(), middleware.GetUserID(r.Context()))
	h.respond(w, r, state, err)
}

// EditDraft reopens a stored draft in the editor.
func (h *AuthoringHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseQuizID(chi.URLParam(r, "id"))
	if err != nil || !id.IsDraft() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid draft ID", r))
		return
	}
	state, err := h.orch.EditDraft(r.Context(), middleware.GetUserID(r.Context()), id)
	h.respond(w, r, state, err)
}
