package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizforge-backend/internal/models"
)

// keyPrefix namespaces every draft entry; the rest of the key is the
// owner and the draft identity.
const keyPrefix = "quiz-draft"

// RedisStore keeps drafts in Redis so they survive across sessions and
// server restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func draftKey(ownerID uuid.UUID, id models.QuizID) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, ownerID, id)
}

func ownerPattern(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s*", keyPrefix, ownerID, "draft-")
}

func (s *RedisStore) Put(ctx context.Context, ownerID uuid.UUID, quiz *models.Quiz) error {
	if err := checkDraft(quiz.ID); err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(ownerID, quiz.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write draft %s: %w", quiz.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (*models.Quiz, error) {
	if err := checkDraft(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, draftKey(ownerID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}
	var quiz models.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, fmt.Errorf("draft %s is corrupt: %w", id, err)
	}
	return &quiz, nil
}

func (s *RedisStore) Delete(ctx context.Context, ownerID uuid.UUID, id models.QuizID) error {
	if err := checkDraft(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, draftKey(ownerID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz

	iter := s.client.Scan(ctx, 0, ownerPattern(ownerID), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Printf("skipping unreadable draft entry %s: %v", key, err)
			}
			continue
		}
		var quiz models.Quiz
		if err := json.Unmarshal(data, &quiz); err != nil {
			// A corrupt record must not take the whole listing down.
			log.Printf("skipping corrupt draft entry %s: %v", key, err)
			continue
		}
		if !strings.HasSuffix(key, quiz.ID.String()) {
			log.Printf("skipping draft entry %s: stored identity %s does not match key", key, quiz.ID)
			continue
		}
		quizzes = append(quizzes, &quiz)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return quizzes, nil
}
