package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/draftstore"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/importer"
	"quizforge-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleAuthoringError translates the pipeline error taxonomy into HTTP.
// Validation errors stay 400 and inline; parse errors carry their line
// message; generation failures prompt a retry; persistence failures are
// failed-save notices.
func handleAuthoringError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		parseErr   *importer.ParseError
		persistErr *authoring.PersistenceError
	)
	switch {
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp(string(parseErr.Kind), parseErr.Error(), r))
	case errors.Is(err, generator.ErrGenerationFailed):
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED",
			"Failed to generate quiz. The model might be unavailable or the request was filtered. Please try again with a different topic.", r))
	case errors.Is(err, generator.ErrMissingTopic):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case errors.Is(err, authoring.ErrGenerationInFlight):
		writeJSON(w, http.StatusConflict, errorResp("GENERATION_IN_FLIGHT", err.Error(), r))
	case errors.Is(err, authoring.ErrEditorOpen):
		writeJSON(w, http.StatusConflict, errorResp("EDITOR_OPEN", err.Error(), r))
	case errors.Is(err, authoring.ErrNoSession), errors.Is(err, authoring.ErrNoEditor):
		writeJSON(w, http.StatusConflict, errorResp("NO_SESSION", err.Error(), r))
	case errors.Is(err, draftstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Draft not found", r))
	case errors.As(err, &persistErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("PERSISTENCE_ERROR", persistErr.Error(), r))
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	}
}
