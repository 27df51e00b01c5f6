// Package draftstore persists in-progress quizzes between authoring
// sessions. Entries are keyed by owner plus draft identity; values are
// the full serialized quiz. Writes are last-write-wins: nothing
// coordinates concurrent writers sharing the same store.
package draftstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

var ErrNotFound = errors.New("draft not found")

// Store is the draft persistence contract. Put upserts, Delete is
// idempotent, and ListAll returns every draft for the owner in
// unspecified order, skipping entries that fail to decode.
type Store interface {
	Put(ctx context.Context, ownerID uuid.UUID, quiz *models.Quiz) error
	Get(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (*models.Quiz, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id models.QuizID) error
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]*models.Quiz, error)
}

// checkDraft enforces the identity invariant at the store boundary:
// only draft-prefixed identities enter the draft store.
func checkDraft(id models.QuizID) error {
	if id.IsZero() {
		return fmt.Errorf("draft identity must not be empty")
	}
	if !id.IsDraft() {
		return fmt.Errorf("identity %q is not a draft identity", id)
	}
	return nil
}
