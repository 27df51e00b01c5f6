// Package authoring coordinates the three ingestion paths (manual entry,
// AI generation, file upload) with the review editor, the draft store,
// and the published collection. One authoring session per user; within a
// session at most one path is open and at most one generation call is in
// flight.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"quizforge-backend/internal/draftstore"
	"quizforge-backend/internal/editor"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/importer"
	"quizforge-backend/internal/models"
)

// Path is the currently open ingestion path of a session.
type Path string

const (
	PathNone    Path = "none"
	PathOptions Path = "options-menu"
	PathManual  Path = "manual"
	PathAI      Path = "ai"
	PathUpload  Path = "upload"
)

var (
	ErrNoSession          = errors.New("no authoring session open")
	ErrNoEditor           = errors.New("no editor open")
	ErrEditorOpen         = errors.New("an editor is already open")
	ErrGenerationInFlight = errors.New("a generation call is already in flight")
)

// PersistenceError marks a store or collection write failure. The
// working copy is left untouched so the user can retry the save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Collection is the published-quiz sink. Upsert replaces when the
// identity already exists and appends otherwise.
type Collection interface {
	Upsert(ctx context.Context, ownerID uuid.UUID, quiz *models.Quiz) error
}

// Orchestrator owns every open authoring session. All candidate quizzes
// produced by AI or upload pass through the editor for human review;
// nothing is persisted until an explicit save or publish.
type Orchestrator struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*session
	drafts     draftstore.Store
	collection Collection
	generator  generator.Generator
}

type session struct {
	path       Path
	subjects   []string
	editor     *editor.Session
	generating bool
}

func New(drafts draftstore.Store, collection Collection, gen generator.Generator) *Orchestrator {
	return &Orchestrator{
		sessions:   make(map[uuid.UUID]*session),
		drafts:     drafts,
		collection: collection,
		generator:  gen,
	}
}

// State is a read-only snapshot for the rendering layer.
type State struct {
	Path            Path              `json:"path"`
	Generating      bool              `json:"generating"`
	EditorOpen      bool              `json:"editor_open"`
	Step            editor.Step       `json:"step,omitempty"`
	Details         editor.Details    `json:"details,omitzero"`
	Pending         editor.Pending    `json:"pending,omitzero"`
	Questions       []models.Question `json:"questions,omitempty"`
	Dirty           bool              `json:"dirty"`
	AwaitingDiscard bool              `json:"awaiting_discard"`
}

func (o *Orchestrator) snapshotLocked(sess *session) State {
	st := State{Path: sess.path, Generating: sess.generating}
	if sess.editor != nil {
		st.EditorOpen = true
		st.Step = sess.editor.Step()
		st.Details = sess.editor.Details()
		st.Pending = sess.editor.Pending()
		st.Questions = sess.editor.Questions()
		st.Dirty = sess.editor.Dirty()
		st.AwaitingDiscard = sess.editor.AwaitingDiscard()
	}
	return st
}

// StartAuthoring opens the three-way choice for a fresh authoring run.
// subjects is the user's configured subject list, used to default new
// quizzes.
func (o *Orchestrator) StartAuthoring(ownerID uuid.UUID, subjects []string) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess := o.sessions[ownerID]
	if sess == nil {
		sess = &session{path: PathNone}
		o.sessions[ownerID] = sess
	}
	if sess.generating {
		return o.snapshotLocked(sess), ErrGenerationInFlight
	}
	if sess.editor != nil {
		return o.snapshotLocked(sess), ErrEditorOpen
	}
	sess.path = PathOptions
	sess.subjects = subjects
	return o.snapshotLocked(sess), nil
}

// State reports the current session snapshot.
func (o *Orchestrator) State(ownerID uuid.UUID) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess := o.sessions[ownerID]
	if sess == nil {
		return State{Path: PathNone}, nil
	}
	return o.snapshotLocked(sess), nil
}

// openIngestion transitions from the options menu (or an idle session)
// onto one path, enforcing that no other path is active.
func (o *Orchestrator) openIngestion(ownerID uuid.UUID, path Path) (*session, error) {
	sess := o.sessions[ownerID]
	if sess == nil {
		return nil, ErrNoSession
	}
	if sess.generating {
		return nil, ErrGenerationInFlight
	}
	if sess.editor != nil {
		return nil, ErrEditorOpen
	}
	sess.path = path
	return sess, nil
}

// StartManual opens a blank editor at step 1.
func (o *Orchestrator) StartManual(ownerID uuid.UUID) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.openIngestion(ownerID, PathManual)
	if err != nil {
		return State{}, err
	}
	sess.editor = editor.New(sess.subjects)
	return o.snapshotLocked(sess), nil
}

// Generate runs the AI path: parameters in, a candidate quiz out, and
// the candidate routed straight into the editor at the questions step
// for review. Exactly one call may be outstanding per session; while it
// runs every other session action is refused.
func (o *Orchestrator) Generate(ctx context.Context, ownerID uuid.UUID, params generator.Params) (State, error) {
	o.mu.Lock()
	sess, err := o.openIngestion(ownerID, PathAI)
	if err != nil {
		o.mu.Unlock()
		return State{}, err
	}
	if err := params.Validate(); err != nil {
		sess.path = PathOptions
		o.mu.Unlock()
		return State{}, err
	}
	sess.generating = true
	o.mu.Unlock()

	quiz, genErr := o.generator.Generate(ctx, params)

	o.mu.Lock()
	defer o.mu.Unlock()
	sess.generating = false
	if genErr != nil {
		sess.path = PathOptions
		return o.snapshotLocked(sess), genErr
	}
	sess.editor = editor.NewFromQuiz(quiz, models.SourceAI)
	sess.path = PathManual
	return o.snapshotLocked(sess), nil
}

// Upload runs the file path: extract text, parse, and route the parsed
// quiz into the editor for review. Parsing is all-or-nothing; any error
// leaves the session on the options menu with nothing produced.
func (o *Orchestrator) Upload(ownerID uuid.UUID, filename string, data []byte) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.openIngestion(ownerID, PathUpload)
	if err != nil {
		return State{}, err
	}

	text, err := importer.ExtractText(filename, data)
	if err != nil {
		sess.path = PathOptions
		return State{}, err
	}
	quiz, err := importer.Parse(text, importer.SuggestTitle(filename))
	if err != nil {
		sess.path = PathOptions
		return State{}, err
	}

	sess.editor = editor.NewFromQuiz(quiz, models.SourceUpload)
	sess.path = PathManual
	return o.snapshotLocked(sess), nil
}

// EditDraft reopens a stored draft in the editor.
func (o *Orchestrator) EditDraft(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.openIngestion(ownerID, PathManual)
	if err != nil {
		return State{}, err
	}
	quiz, err := o.drafts.Get(ctx, ownerID, id)
	if err != nil {
		sess.path = PathNone
		return State{}, err
	}
	sess.editor = editor.NewFromQuiz(quiz, models.SourceManual)
	return o.snapshotLocked(sess), nil
}

// EditQuiz opens an already-published quiz in the editor, preserving its
// identity so publishing replaces it in place.
func (o *Orchestrator) EditQuiz(ownerID uuid.UUID, quiz *models.Quiz) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.openIngestion(ownerID, PathManual)
	if err != nil {
		return State{}, err
	}
	sess.editor = editor.NewFromQuiz(quiz, models.SourceManual)
	return o.snapshotLocked(sess), nil
}

// withEditor runs fn against the open editor under the session lock.
func (o *Orchestrator) withEditor(ownerID uuid.UUID, fn func(sess *session, ed *editor.Session) error) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess := o.sessions[ownerID]
	if sess == nil {
		return State{}, ErrNoSession
	}
	if sess.generating {
		return o.snapshotLocked(sess), ErrGenerationInFlight
	}
	if sess.editor == nil {
		return o.snapshotLocked(sess), ErrNoEditor
	}
	err := fn(sess, sess.editor)
	return o.snapshotLocked(sess), err
}

func (o *Orchestrator) UpdateDetails(ownerID uuid.UUID, patch models.DetailsPatch) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		return ed.UpdateDetails(patch)
	})
}

func (o *Orchestrator) UpdatePending(ownerID uuid.UUID, patch models.PendingPatch) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		return ed.UpdatePending(patch)
	})
}

func (o *Orchestrator) AddQuestion(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		_, err := ed.AddQuestion()
		return err
	})
}

func (o *Orchestrator) RemoveQuestion(ownerID uuid.UUID, questionID string) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		return ed.RemoveQuestion(questionID)
	})
}

func (o *Orchestrator) NextStep(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		return ed.Next()
	})
}

func (o *Orchestrator) Back(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		ed.Back()
		return nil
	})
}

// CloseEditor requests closing the wizard. A dirty working copy asks for
// confirmation instead of closing.
func (o *Orchestrator) CloseEditor(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(sess *session, ed *editor.Session) error {
		if ed.Close() == editor.Closed {
			o.resetLocked(sess)
		}
		return nil
	})
}

// ConfirmDiscard executes a pending close, dropping all in-memory state.
func (o *Orchestrator) ConfirmDiscard(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(sess *session, ed *editor.Session) error {
		if err := ed.ConfirmClose(); err != nil {
			return err
		}
		o.resetLocked(sess)
		return nil
	})
}

// CancelDiscard abandons a pending close and returns to the editor.
func (o *Orchestrator) CancelDiscard(ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(_ *session, ed *editor.Session) error {
		ed.CancelClose()
		return nil
	})
}

// SaveDraft persists the working copy into the draft store and closes
// the session. On a store failure the editor stays open and dirty.
func (o *Orchestrator) SaveDraft(ctx context.Context, ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(sess *session, ed *editor.Session) error {
		quiz, err := ed.SaveDraft()
		if err != nil {
			return err
		}
		if err := o.drafts.Put(ctx, ownerID, quiz); err != nil {
			return &PersistenceError{Op: "failed to save draft", Err: err}
		}
		o.resetLocked(sess)
		return nil
	})
}

// SaveAndPublish moves the working copy into the published collection.
// A pre-existing published identity is kept so the quiz is replaced in
// place; otherwise a fresh identity is minted tagged with the session
// source. When the working copy originated from a draft, the draft entry
// is retired after the publish succeeds.
func (o *Orchestrator) SaveAndPublish(ctx context.Context, ownerID uuid.UUID) (State, error) {
	return o.withEditor(ownerID, func(sess *session, ed *editor.Session) error {
		quiz, err := ed.SaveAndPublish()
		if err != nil {
			return err
		}
		if quiz.ID.IsZero() {
			quiz.ID = models.NewPublishedID(ed.Source())
		}
		if err := o.collection.Upsert(ctx, ownerID, quiz); err != nil {
			return &PersistenceError{Op: "failed to publish quiz", Err: err}
		}
		if draftID := ed.DraftID(); !draftID.IsZero() {
			if err := o.drafts.Delete(ctx, ownerID, draftID); err != nil {
				// Publish already succeeded; the stale draft is logged,
				// not fatal.
				log.Printf("failed to remove draft %s after publish: %v", draftID, err)
			}
		}
		o.resetLocked(sess)
		return nil
	})
}

// PublishDraft publishes a stored draft directly, bypassing the editor:
// a fresh non-draft identity is minted, the quiz lands in the
// collection, and the draft entry is removed.
func (o *Orchestrator) PublishDraft(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (*models.Quiz, error) {
	quiz, err := o.drafts.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	quiz.ID = models.NewPublishedID(models.SourceManual)
	if err := models.ValidateQuiz(quiz); err != nil {
		return nil, fmt.Errorf("draft is not ready to publish: %w", err)
	}
	if err := o.collection.Upsert(ctx, ownerID, quiz); err != nil {
		return nil, &PersistenceError{Op: "failed to publish quiz", Err: err}
	}
	if err := o.drafts.Delete(ctx, ownerID, id); err != nil {
		log.Printf("failed to remove draft %s after publish: %v", id, err)
	}
	return quiz, nil
}

// DeleteDraft removes a stored draft. Idempotent.
func (o *Orchestrator) DeleteDraft(ctx context.Context, ownerID uuid.UUID, id models.QuizID) error {
	return o.drafts.Delete(ctx, ownerID, id)
}

// ListDrafts returns the owner's stored drafts for the drafts view.
func (o *Orchestrator) ListDrafts(ctx context.Context, ownerID uuid.UUID) ([]*models.Quiz, error) {
	return o.drafts.ListAll(ctx, ownerID)
}

func (o *Orchestrator) resetLocked(sess *session) {
	sess.editor = nil
	sess.path = PathNone
}
