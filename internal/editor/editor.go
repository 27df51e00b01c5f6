// Package editor holds the two-step quiz wizard as a plain state
// machine. It owns a working copy of a quiz and never touches storage;
// the rendering layer reads the state and dispatches events, and the
// orchestrator persists whatever SaveDraft/SaveAndPublish hand back.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

type Step string

const (
	Step1Details   Step = "details"
	Step2Questions Step = "questions"
)

var (
	ErrTitleRequired      = errors.New("please enter a title first")
	ErrNoQuestions        = errors.New("please add at least one question to the quiz")
	ErrDiscardUnconfirmed = errors.New("unsaved changes: confirm discard first")
)

// Details are the step-1 fields of the working copy.
type Details struct {
	Title      string            `json:"title"`
	Subject    string            `json:"subject"`
	KeyStage   models.KeyStage   `json:"keyStage"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// Pending is the in-progress question buffer, distinct from the
// committed question list until AddQuestion validates it.
type Pending struct {
	Text               string                     `json:"text"`
	Options            [models.OptionCount]string `json:"options"`
	CorrectAnswerIndex int                        `json:"correctAnswerIndex"`
}

func (p Pending) complete() bool {
	if strings.TrimSpace(p.Text) == "" {
		return false
	}
	for _, opt := range p.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return true
}

// CloseOutcome reports what a Close event did.
type CloseOutcome string

const (
	Closed         CloseOutcome = "closed"          // editor is done, state discarded
	ConfirmDiscard CloseOutcome = "confirm_discard" // dirty: waiting for confirm/cancel
)

// Session is one open wizard. Identity handling: publishedID is the
// pre-existing non-draft identity when an already-published quiz is
// being edited; draftID is the draft identity this working copy saves
// under, minted lazily on the first SaveDraft and reused on every
// subsequent one so repeated draft saves overwrite instead of
// duplicating.
type Session struct {
	step       Step
	details    Details
	questions  []models.Question
	pending    Pending
	dirty      bool
	confirming bool

	source      models.Source
	publishedID models.QuizID
	draftID     models.QuizID
}

// New opens a blank wizard at step 1 with the caller's default subject.
func New(subjects []string) *Session {
	subject := ""
	if len(subjects) > 0 {
		subject = subjects[0]
	}
	return &Session{
		step: Step1Details,
		details: Details{
			Subject:    subject,
			KeyStage:   models.KS3,
			Difficulty: models.DifficultyMedium,
		},
		source: models.SourceManual,
	}
}

// NewFromQuiz opens the wizard over an existing quiz or a freshly
// produced AI/upload candidate. When question content is present the
// wizard starts at step 2 for review. The quiz identity is preserved for
// the eventual save: a draft identity routes future draft saves to the
// same store entry, a published identity survives SaveAndPublish.
func NewFromQuiz(q *models.Quiz, source models.Source) *Session {
	s := &Session{
		step: Step1Details,
		details: Details{
			Title:      q.Title,
			Subject:    q.Subject,
			KeyStage:   q.KeyStage,
			Difficulty: q.Difficulty,
		},
		questions: append([]models.Question(nil), q.Questions...),
		source:    source,
	}
	if len(s.questions) > 0 {
		s.step = Step2Questions
	}
	switch {
	case q.ID.IsZero():
	case q.ID.IsDraft():
		s.draftID = q.ID
	default:
		s.publishedID = q.ID
	}
	return s
}

func (s *Session) Step() Step { return s.step }

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) AwaitingDiscard() bool { return s.confirming }

func (s *Session) Details() Details { return s.details }

func (s *Session) Pending() Pending { return s.pending }

func (s *Session) Source() models.Source { return s.source }

func (s *Session) PublishedID() models.QuizID { return s.publishedID }

func (s *Session) DraftID() models.QuizID { return s.draftID }

// Questions returns a copy of the committed question list.
func (s *Session) Questions() []models.Question {
	return append([]models.Question(nil), s.questions...)
}

// UpdateDetails applies a partial edit to the detail fields. Any applied
// change marks the session dirty.
func (s *Session) UpdateDetails(patch models.DetailsPatch) error {
	if patch.KeyStage != nil && !patch.KeyStage.Valid() {
		return fmt.Errorf("unknown key stage %q", *patch.KeyStage)
	}
	if patch.Difficulty != nil && !patch.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", *patch.Difficulty)
	}
	if patch.Title != nil {
		s.details.Title = *patch.Title
		s.dirty = true
	}
	if patch.Subject != nil {
		s.details.Subject = *patch.Subject
		s.dirty = true
	}
	if patch.KeyStage != nil {
		s.details.KeyStage = *patch.KeyStage
		s.dirty = true
	}
	if patch.Difficulty != nil {
		s.details.Difficulty = *patch.Difficulty
		s.dirty = true
	}
	return nil
}

// UpdatePending applies a partial edit to the pending-question buffer.
func (s *Session) UpdatePending(patch models.PendingPatch) error {
	if patch.Option != nil {
		if patch.OptionIndex == nil {
			return fmt.Errorf("option_index is required when setting an option")
		}
		i := *patch.OptionIndex
		if i < 0 || i >= models.OptionCount {
			return fmt.Errorf("option index must be between 0 and %d, got %d", models.OptionCount-1, i)
		}
		s.pending.Options[i] = *patch.Option
		s.dirty = true
	}
	if patch.Text != nil {
		s.pending.Text = *patch.Text
		s.dirty = true
	}
	if patch.CorrectAnswerIndex != nil {
		i := *patch.CorrectAnswerIndex
		if i < 0 || i >= models.OptionCount {
			return fmt.Errorf("correct answer index must be between 0 and %d, got %d", models.OptionCount-1, i)
		}
		s.pending.CorrectAnswerIndex = i
		s.dirty = true
	}
	return nil
}

// AddQuestion validates the pending buffer and, only if complete,
// commits it as a new identified question and resets the buffer. An
// invalid buffer leaves both the buffer and the list unchanged.
func (s *Session) AddQuestion() (models.Question, error) {
	if !s.pending.complete() {
		return models.Question{}, fmt.Errorf("please fill in the question and all four options")
	}

	options := make([]string, models.OptionCount)
	for i, opt := range s.pending.Options {
		options[i] = strings.TrimSpace(opt)
	}
	q := models.Question{
		ID:                 uuid.NewString(),
		Text:               strings.TrimSpace(s.pending.Text),
		Options:            options,
		CorrectAnswerIndex: s.pending.CorrectAnswerIndex,
	}
	if err := models.ValidateQuestion(q); err != nil {
		return models.Question{}, err
	}

	s.questions = append(s.questions, q)
	s.pending = Pending{}
	s.dirty = true
	return q, nil
}

// RemoveQuestion drops a committed question by identity.
func (s *Session) RemoveQuestion(id string) error {
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("no question with id %q", id)
}

// Next advances from details to questions. Guarded by a non-empty title.
func (s *Session) Next() error {
	if s.step != Step1Details {
		return nil
	}
	if strings.TrimSpace(s.details.Title) == "" {
		return ErrTitleRequired
	}
	s.step = Step2Questions
	return nil
}

// Back returns to the details step. Unconditional.
func (s *Session) Back() {
	s.step = Step1Details
}

// Close requests leaving the wizard. A dirty session routes through a
// confirmation; a clean one closes immediately.
func (s *Session) Close() CloseOutcome {
	if s.dirty {
		s.confirming = true
		return ConfirmDiscard
	}
	return Closed
}

// ConfirmClose discards the working copy after a Close that asked for
// confirmation.
func (s *Session) ConfirmClose() error {
	if !s.confirming {
		return ErrDiscardUnconfirmed
	}
	s.confirming = false
	return nil
}

// CancelClose returns to the current step unchanged.
func (s *Session) CancelClose() {
	s.confirming = false
}

// Snapshot materializes the working copy without any identity attached.
func (s *Session) Snapshot() *models.Quiz {
	return &models.Quiz{
		Title:      s.details.Title,
		Subject:    s.details.Subject,
		KeyStage:   s.details.KeyStage,
		Difficulty: s.details.Difficulty,
		Questions:  s.Questions(),
	}
}

// SaveDraft yields the quiz to persist in the draft store. Guarded by a
// non-empty title; an empty question list is allowed for drafts. The
// draft identity is minted on first use and reused afterwards.
func (s *Session) SaveDraft() (*models.Quiz, error) {
	if strings.TrimSpace(s.details.Title) == "" {
		return nil, ErrTitleRequired
	}
	if s.draftID.IsZero() {
		s.draftID = models.NewDraftID()
	}
	quiz := s.Snapshot()
	quiz.ID = s.draftID
	return quiz, nil
}

// SaveAndPublish yields the quiz to publish. Guarded by at least one
// committed question, plus full content-model validation. A pre-existing
// published identity is preserved; otherwise the orchestrator mints one
// from the session source.
func (s *Session) SaveAndPublish() (*models.Quiz, error) {
	if len(s.questions) == 0 {
		return nil, ErrNoQuestions
	}
	quiz := s.Snapshot()
	quiz.ID = s.publishedID
	if err := models.ValidateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}
