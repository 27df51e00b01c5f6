package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDraftID(t *testing.T) {
	id := NewDraftID()
	if !id.IsDraft() {
		t.Error("Expected draft identity")
	}
	if !strings.HasPrefix(id.String(), "draft-") {
		t.Errorf("Expected draft- prefix, got %q", id.String())
	}
	if id.Equal(NewDraftID()) {
		t.Error("Expected distinct identities from successive mints")
	}
}

func TestNewPublishedID(t *testing.T) {
	tests := []struct {
		name       string
		source     Source
		wantPrefix string
	}{
		{"ai source", SourceAI, "ai-generated-"},
		{"upload source", SourceUpload, "uploaded-"},
		{"manual source", SourceManual, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := NewPublishedID(tc.source)
			if id.IsDraft() {
				t.Error("Published identity must not be a draft")
			}
			if tc.wantPrefix != "" && !strings.HasPrefix(id.String(), tc.wantPrefix) {
				t.Errorf("Expected prefix %q, got %q", tc.wantPrefix, id.String())
			}
			if tc.source == SourceManual && strings.Contains(id.String(), "-generated-") {
				t.Errorf("Manual identity must be a bare uuid, got %q", id.String())
			}
		})
	}
}

func TestParseQuizID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDraft bool
		wantErr   bool
	}{
		{"draft prefix", "draft-abc123", true, false},
		{"ai prefix", "ai-generated-abc123", false, false},
		{"upload prefix", "uploaded-abc123", false, false},
		{"bare uuid", "0f2a9e60-1111-2222-3333-444455556666", false, false},
		{"empty string", "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseQuizID(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if id.IsDraft() != tc.wantDraft {
				t.Errorf("Expected IsDraft=%v for %q", tc.wantDraft, tc.input)
			}
			if id.String() != tc.input {
				t.Errorf("Expected identity %q preserved, got %q", tc.input, id.String())
			}
		})
	}
}

func TestQuizID_ZeroValue(t *testing.T) {
	var id QuizID
	if !id.IsZero() {
		t.Error("Zero value must report IsZero")
	}
	if id.IsDraft() {
		t.Error("Zero value must not be a draft")
	}
}

func TestQuizID_JSONRoundTrip(t *testing.T) {
	orig := NewDraftID()
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded QuizID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(orig) || !decoded.IsDraft() {
		t.Errorf("Round trip lost identity: got %q draft=%v", decoded.String(), decoded.IsDraft())
	}
}

func TestQuiz_OmitsZeroID(t *testing.T) {
	data, err := json.Marshal(&Quiz{Title: "T"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("Expected zero identity omitted, got %s", data)
	}
}
