// Package collection is the published-quiz sink: once a quiz lands here
// it is visible to learners. Rows are keyed by the quiz identity string,
// so publishing an already-published quiz replaces it in place.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizforge-backend/internal/models"
)

var ErrNotFound = errors.New("quiz not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert inserts the quiz or replaces the row with the same identity.
// Draft identities are rejected: drafts belong to the draft store.
func (r *Repo) Upsert(ctx context.Context, ownerID uuid.UUID, q *models.Quiz) error {
	if q.ID.IsZero() || q.ID.IsDraft() {
		return fmt.Errorf("cannot publish quiz under identity %q", q.ID)
	}
	if err := models.ValidateQuiz(q); err != nil {
		return fmt.Errorf("refusing to publish invalid quiz: %w", err)
	}

	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("failed to serialize questions: %w", err)
	}

	query := `INSERT INTO quizzes (id, owner_id, title, subject, key_stage, difficulty, questions_json, question_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subject = EXCLUDED.subject,
			key_stage = EXCLUDED.key_stage,
			difficulty = EXCLUDED.difficulty,
			questions_json = EXCLUDED.questions_json,
			question_count = EXCLUDED.question_count,
			updated_at = NOW()
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID.String(), ownerID, q.Title, q.Subject, string(q.KeyStage), string(q.Difficulty),
		questionsJSON, len(q.Questions),
	).Scan(&q.CreatedAt)
}

func (r *Repo) GetByID(ctx context.Context, ownerID uuid.UUID, id models.QuizID) (*models.Quiz, error) {
	query := `SELECT id, title, subject, key_stage, difficulty, questions_json, created_at
		FROM quizzes WHERE id = $1 AND owner_id = $2`
	quiz, err := scanQuiz(r.pool.QueryRow(ctx, query, id.String(), ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return quiz, err
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Quiz, error) {
	query := `SELECT id, title, subject, key_stage, difficulty, questions_json, created_at
		FROM quizzes WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, ownerID uuid.UUID, id models.QuizID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM quizzes WHERE id = $1 AND owner_id = $2", id.String(), ownerID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (*models.Quiz, error) {
	var (
		q             models.Quiz
		idStr         string
		keyStage      string
		difficulty    string
		questionsJSON []byte
	)
	err := row.Scan(&idStr, &q.Title, &q.Subject, &keyStage, &difficulty, &questionsJSON, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.ID, err = models.ParseQuizID(idStr)
	if err != nil {
		return nil, err
	}
	q.KeyStage = models.KeyStage(keyStage)
	q.Difficulty = models.Difficulty(difficulty)
	if err := json.Unmarshal(questionsJSON, &q.Questions); err != nil {
		return nil, fmt.Errorf("quiz %s has corrupt questions: %w", idStr, err)
	}
	return &q, nil
}
