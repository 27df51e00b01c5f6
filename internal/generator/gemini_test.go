package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"quizforge-backend/internal/models"
)

func testParams() Params {
	return Params{
		Topic:        "Photosynthesis",
		NumQuestions: 2,
		Subject:      "Biology",
		KeyStage:     models.KS4,
		Difficulty:   models.DifficultyHard,
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr error
	}{
		{"valid", func(p *Params) {}, nil},
		{"missing topic", func(p *Params) { p.Topic = "  " }, ErrMissingTopic},
		{"zero questions", func(p *Params) { p.NumQuestions = 0 }, nil},
		{"too many questions", func(p *Params) { p.NumQuestions = 21 }, nil},
		{"unknown key stage", func(p *Params) { p.KeyStage = "KS7" }, nil},
		{"unknown difficulty", func(p *Params) { p.Difficulty = "Impossible" }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testParams()
			tc.mutate(&p)
			err := p.Validate()

			if tc.name == "valid" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func payloadJSON(t *testing.T, title string, questions int, options int) []byte {
	t.Helper()
	type q struct {
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	}
	qs := make([]q, questions)
	for i := range qs {
		opts := make([]string, options)
		for j := range opts {
			opts[j] = "option"
		}
		qs[i] = q{Text: "Question?", Options: opts, CorrectAnswerIndex: 0}
	}
	data, err := json.Marshal(map[string]any{
		"title":      title,
		"subject":    "Biology",
		"keyStage":   "KS4",
		"difficulty": "Hard",
		"questions":  qs,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestQuizFromPayload_Valid(t *testing.T) {
	params := testParams()
	quiz, err := quizFromPayload(payloadJSON(t, "Leaf Power", 2, 4), params)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if quiz.Title != "Leaf Power" {
		t.Errorf("Expected model title, got %q", quiz.Title)
	}
	if !strings.HasPrefix(quiz.ID.String(), "ai-generated-") {
		t.Errorf("Expected ai-generated- identity, got %q", quiz.ID.String())
	}
	if quiz.Subject != params.Subject || quiz.KeyStage != params.KeyStage || quiz.Difficulty != params.Difficulty {
		t.Error("Request tags must win over model output tags")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(quiz.Questions))
	}
	if quiz.Questions[0].ID == quiz.Questions[1].ID {
		t.Error("Expected distinct question identities")
	}
	if err := models.ValidateQuiz(quiz); err != nil {
		t.Errorf("Generated quiz must pass validation: %v", err)
	}
}

func TestQuizFromPayload_TitleFallsBackToTopic(t *testing.T) {
	quiz, err := quizFromPayload(payloadJSON(t, "  ", 2, 4), testParams())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if quiz.Title != "Photosynthesis" {
		t.Errorf("Expected topic fallback, got %q", quiz.Title)
	}
}

func TestQuizFromPayload_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("the model apologizes")},
		{"wrong question count", payloadJSON(t, "T", 3, 4)},
		{"wrong option count", payloadJSON(t, "T", 2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := quizFromPayload(tc.raw, testParams()); err == nil {
				t.Error("Expected rejection, got nil")
			}
		})
	}
}

func TestQuizFromPayload_SemanticInvalidity(t *testing.T) {
	// Schema-conformant output with an empty question text must still be
	// rejected.
	raw := payloadJSON(t, "T", 2, 4)
	bad := strings.Replace(string(raw), `"text":"Question?"`, `"text":"  "`, 1)
	if _, err := quizFromPayload([]byte(bad), testParams()); err == nil {
		t.Error("Expected rejection of semantically invalid output")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(testParams())
	for _, want := range []string{"Photosynthesis", "Biology", "KS4", "Hard", "exactly 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to mention %q", want)
		}
	}
}

func TestResponseSchema_RequiresAllFields(t *testing.T) {
	schema := responseSchema(5)
	if len(schema.Required) != 5 {
		t.Errorf("Expected 5 required top-level fields, got %d", len(schema.Required))
	}
	items := schema.Properties["questions"].Items
	if items == nil || len(items.Required) != 3 {
		t.Error("Expected question items to require text, options, and correctAnswerIndex")
	}
}
