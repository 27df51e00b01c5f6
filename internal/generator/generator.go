// Package generator produces candidate quizzes from topic parameters via
// an external AI model. The external call is treated as a black box: a
// structured request goes out, and anything other than a schema-conformant,
// semantically valid quiz comes back as a uniform generation failure the
// user may retry by hand. No automatic retry is performed.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizforge-backend/internal/models"
)

const (
	MinQuestions = 1
	MaxQuestions = 20
)

var (
	// ErrMissingTopic is returned before any external call is made.
	ErrMissingTopic = errors.New("a topic is required to generate a quiz")

	// ErrGenerationFailed covers every external failure mode: transport
	// errors, model errors, and output that violates the schema or the
	// content model. Callers surface it as a single retry-prompting
	// message.
	ErrGenerationFailed = errors.New("failed to generate quiz")
)

// Params is the generation request.
type Params struct {
	Topic        string
	NumQuestions int
	Subject      string
	KeyStage     models.KeyStage
	Difficulty   models.Difficulty
}

// Validate rejects parameter sets that must never reach the external
// model.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Topic) == "" {
		return ErrMissingTopic
	}
	if p.NumQuestions < MinQuestions || p.NumQuestions > MaxQuestions {
		return fmt.Errorf("number of questions must be between %d and %d, got %d", MinQuestions, MaxQuestions, p.NumQuestions)
	}
	if !p.KeyStage.Valid() {
		return fmt.Errorf("unknown key stage %q", p.KeyStage)
	}
	if !p.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", p.Difficulty)
	}
	return nil
}

// Generator yields a reviewed-ready candidate quiz for the given
// parameters. Implementations must return quizzes that already pass
// models.ValidateQuiz.
type Generator interface {
	Generate(ctx context.Context, params Params) (*models.Quiz, error)
}
