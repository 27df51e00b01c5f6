package draftstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

func draftQuiz(id models.QuizID) *models.Quiz {
	return &models.Quiz{
		ID:         id,
		Title:      "WIP Quiz",
		Subject:    "History",
		KeyStage:   models.KS3,
		Difficulty: models.DifficultyMedium,
	}
}

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := uuid.New()
	id := models.NewDraftID()

	if err := store.Put(ctx, owner, draftQuiz(id)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, owner, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.ID.Equal(id) || got.Title != "WIP Quiz" {
		t.Errorf("Unexpected draft %q %q", got.ID.String(), got.Title)
	}

	if err := store.Delete(ctx, owner, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, owner, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent draft is idempotent.
	if err := store.Delete(ctx, owner, id); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), uuid.New(), models.NewDraftID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_RejectsNonDraftIdentities(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := uuid.New()
	pubID := models.NewPublishedID(models.SourceManual)

	if err := store.Put(ctx, owner, draftQuiz(pubID)); err == nil {
		t.Error("Put must reject a published identity")
	}
	if _, err := store.Get(ctx, owner, pubID); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get must reject a published identity, got %v", err)
	}
	if err := store.Delete(ctx, owner, pubID); err == nil {
		t.Error("Delete must reject a published identity")
	}
	if err := store.Put(ctx, owner, draftQuiz(models.QuizID{})); err == nil {
		t.Error("Put must reject a zero identity")
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := uuid.New()
	id := models.NewDraftID()

	store.Put(ctx, owner, draftQuiz(id))
	updated := draftQuiz(id)
	updated.Title = "Renamed"
	if err := store.Put(ctx, owner, updated); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	drafts, err := store.ListAll(ctx, owner)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("Expected 1 draft after overwrite, got %d", len(drafts))
	}
	if drafts[0].Title != "Renamed" {
		t.Errorf("Expected overwritten title, got %q", drafts[0].Title)
	}
}

func TestMemoryStore_ListScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	alice, bob := uuid.New(), uuid.New()

	store.Put(ctx, alice, draftQuiz(models.NewDraftID()))
	store.Put(ctx, alice, draftQuiz(models.NewDraftID()))
	store.Put(ctx, bob, draftQuiz(models.NewDraftID()))

	drafts, err := store.ListAll(ctx, alice)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("Expected 2 drafts for alice, got %d", len(drafts))
	}
}

func TestMemoryStore_ListSkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := uuid.New()
	good, bad := models.NewDraftID(), models.NewDraftID()

	store.Put(ctx, owner, draftQuiz(good))
	store.Put(ctx, owner, draftQuiz(bad))
	store.Corrupt(owner, bad)

	drafts, err := store.ListAll(ctx, owner)
	if err != nil {
		t.Fatalf("ListAll must not fail on corrupt entries: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("Expected the corrupt entry skipped, got %d drafts", len(drafts))
	}
	if !drafts[0].ID.Equal(good) {
		t.Errorf("Expected the intact draft, got %q", drafts[0].ID.String())
	}
}
