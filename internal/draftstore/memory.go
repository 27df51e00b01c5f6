package draftstore

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

// MemoryStore is an in-process Store used in tests and for running
// without Redis. It serializes values the same way the Redis store does
// so corrupt-entry behavior can be exercised.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte // ownerID:draftID -> serialized quiz
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func memKey(ownerID uuid.UUID, id models.QuizID) string {
	return ownerID.String() + ":" + id.String()
}

func (s *MemoryStore) Put(ctx context.Context, ownerID uuid.UUID, quiz *models.Quiz) error {
	if err := checkDraft(quiz.ID); err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[memKey(ownerID, quiz.ID)] = data
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (*models.Quiz, error) {
	if err := checkDraft(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, ok := s.entries[memKey(ownerID, id)]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var quiz models.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID uuid.UUID, id models.QuizID) error {
	if err := checkDraft(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, memKey(ownerID, id))
	return nil
}

func (s *MemoryStore) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quizzes []*models.Quiz
	prefix := ownerID.String() + ":"
	for key, data := range s.entries {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		var quiz models.Quiz
		if err := json.Unmarshal(data, &quiz); err != nil {
			log.Printf("skipping corrupt draft entry %s: %v", key, err)
			continue
		}
		quizzes = append(quizzes, &quiz)
	}
	return quizzes, nil
}

// Corrupt overwrites a stored entry with unparseable bytes. Test hook.
func (s *MemoryStore) Corrupt(ownerID uuid.UUID, id models.QuizID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[memKey(ownerID, id)] = []byte("{not json")
}
