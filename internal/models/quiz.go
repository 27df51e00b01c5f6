package models

import (
	"fmt"
	"strings"
	"time"
)

// OptionCount is fixed: every question carries exactly four answer options.
const OptionCount = 4

type KeyStage string

const (
	KS1 KeyStage = "KS1"
	KS2 KeyStage = "KS2"
	KS3 KeyStage = "KS3"
	KS4 KeyStage = "KS4"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (k KeyStage) Valid() bool {
	switch k {
	case KS1, KS2, KS3, KS4:
		return true
	}
	return false
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is one multiple-choice item. Option identity is positional:
// the options slice order is display order and CorrectAnswerIndex refers
// into it.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Quiz is a titled, tagged, ordered collection of questions. ID is the
// zero value for a quiz that has not been assigned an identity yet.
type Quiz struct {
	ID         QuizID     `json:"id,omitzero"`
	Title      string     `json:"title"`
	Subject    string     `json:"subject"`
	KeyStage   KeyStage   `json:"keyStage"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
}

// ValidateQuestion reports why q may not enter the model, or nil.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text must not be empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question must have exactly %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d must not be empty", i+1)
		}
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= OptionCount {
		return fmt.Errorf("correct answer index must be between 0 and %d, got %d", OptionCount-1, q.CorrectAnswerIndex)
	}
	return nil
}

// ValidateQuiz checks the invariants a quiz must satisfy to persist:
// non-empty title, a known key stage and difficulty, and at least one
// valid question.
func ValidateQuiz(z *Quiz) error {
	if strings.TrimSpace(z.Title) == "" {
		return fmt.Errorf("quiz title must not be empty")
	}
	if !z.KeyStage.Valid() {
		return fmt.Errorf("unknown key stage %q", z.KeyStage)
	}
	if !z.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", z.Difficulty)
	}
	if len(z.Questions) == 0 {
		return fmt.Errorf("quiz must contain at least one question")
	}
	for i, q := range z.Questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
