package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/draftstore"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/importer"
	"quizforge-backend/internal/models"
)

func TestHandleAuthoringError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"parse error", &importer.ParseError{Kind: importer.MalformedLine, Line: 3}, http.StatusUnprocessableEntity, "MALFORMED_LINE"},
		{"empty document", &importer.ParseError{Kind: importer.EmptyDocument}, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"},
		{"generation failed", fmt.Errorf("%w: upstream", generator.ErrGenerationFailed), http.StatusBadGateway, "GENERATION_FAILED"},
		{"missing topic", generator.ErrMissingTopic, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"generation in flight", authoring.ErrGenerationInFlight, http.StatusConflict, "GENERATION_IN_FLIGHT"},
		{"editor open", authoring.ErrEditorOpen, http.StatusConflict, "EDITOR_OPEN"},
		{"no session", authoring.ErrNoSession, http.StatusConflict, "NO_SESSION"},
		{"no editor", authoring.ErrNoEditor, http.StatusConflict, "NO_SESSION"},
		{"draft not found", draftstore.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"persistence failure", &authoring.PersistenceError{Op: "failed to save draft", Err: fmt.Errorf("redis down")}, http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"plain validation", fmt.Errorf("please enter a title first"), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("X-Request-ID", "req-123")

			handleAuthoringError(rec, req, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rec.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Response is not JSON: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("Expected request id propagated, got %q", resp.Error.RequestID)
			}
			if resp.Error.Message == "" {
				t.Error("Expected a user-facing message")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
}
