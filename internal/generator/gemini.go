package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"quizforge-backend/internal/models"
)

const geminiModelName = "gemini-2.5-flash"

// GeminiGenerator implements Generator on top of the Gemini API with a
// strict JSON response schema.
type GeminiGenerator struct {
	client   *genai.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiGenerator(apiKey string, concurrentReqs int) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiGenerator{
		client:   client,
		rateChan: rateChan,
	}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

func (g *GeminiGenerator) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiGenerator) releaseRate() {
	g.rateChan <- struct{}{}
}

// quizPayload is the exact response shape the model is asked for.
type quizPayload struct {
	Title      string `json:"title"`
	Subject    string `json:"subject"`
	KeyStage   string `json:"keyStage"`
	Difficulty string `json:"difficulty"`
	Questions  []struct {
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	} `json:"questions"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, params Params) (*models.Quiz, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if err := g.acquireRate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer g.releaseRate()

	// The schema depends on the requested count, so the model handle is
	// built per call.
	model := g.client.GenerativeModel(geminiModelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema(params.NumQuestions)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(params)))
	if err != nil {
		log.Printf("Gemini API error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	rawText := extractText(resp)
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	quiz, err := quizFromPayload([]byte(rawText), params)
	if err != nil {
		log.Printf("Gemini output rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return quiz, nil
}

// quizFromPayload decodes model output, enforces the structural schema,
// mints identities, and re-runs content-model validation. Structural
// validity alone is not trusted: a schema-conformant response can still
// carry empty strings.
func quizFromPayload(raw []byte, params Params) (*models.Quiz, error) {
	var payload quizPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %v", err)
	}

	if len(payload.Questions) != params.NumQuestions {
		return nil, fmt.Errorf("schema violation: expected %d questions, got %d", params.NumQuestions, len(payload.Questions))
	}

	questions := make([]models.Question, len(payload.Questions))
	for i, q := range payload.Questions {
		if len(q.Options) != models.OptionCount {
			return nil, fmt.Errorf("schema violation: question %d has %d options", i+1, len(q.Options))
		}
		questions[i] = models.Question{
			ID:                 uuid.NewString(),
			Text:               strings.TrimSpace(q.Text),
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
		}
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = params.Topic
	}

	quiz := &models.Quiz{
		ID:         models.NewPublishedID(models.SourceAI),
		Title:      title,
		Subject:    params.Subject,
		KeyStage:   params.KeyStage,
		Difficulty: params.Difficulty,
		Questions:  questions,
	}
	if err := models.ValidateQuiz(quiz); err != nil {
		return nil, fmt.Errorf("generated quiz failed validation: %v", err)
	}
	return quiz, nil
}

func buildPrompt(params Params) string {
	var b strings.Builder
	b.WriteString("You are an expert educational assessor.\n")
	fmt.Fprintf(&b, "Generate a quiz for a %s %s class at a %s difficulty level. ", params.KeyStage, params.Subject, params.Difficulty)
	b.WriteString("The quiz should be titled based on the topic. ")
	fmt.Fprintf(&b, "It must contain exactly %d multiple-choice questions about: %q. ", params.NumQuestions, params.Topic)
	fmt.Fprintf(&b, "Each question must have exactly %d options. ", models.OptionCount)
	fmt.Fprintf(&b, "For each question, provide the index of the correct answer (from 0 to %d).", models.OptionCount-1)
	return b.String()
}

func responseSchema(numQuestions int) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":      {Type: genai.TypeString, Description: "A creative title for the quiz based on the topic."},
			"subject":    {Type: genai.TypeString},
			"keyStage":   {Type: genai.TypeString},
			"difficulty": {Type: genai.TypeString},
			"questions": {
				Type:        genai.TypeArray,
				Description: fmt.Sprintf("An array of exactly %d questions.", numQuestions),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text": {Type: genai.TypeString, Description: "The question text."},
						"options": {
							Type:        genai.TypeArray,
							Description: "An array of exactly 4 string options.",
							Items:       &genai.Schema{Type: genai.TypeString},
						},
						"correctAnswerIndex": {Type: genai.TypeInteger, Description: "The 0-based index of the correct option."},
					},
					Required: []string{"text", "options", "correctAnswerIndex"},
				},
			},
		},
		Required: []string{"title", "subject", "keyStage", "difficulty", "questions"},
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
