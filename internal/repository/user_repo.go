package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizforge-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// UpsertSession records the identity and role handed over at session
// start. The role and subject list are whatever the role provider chose;
// a returning email keeps its user id.
func (r *UserRepo) UpsertSession(ctx context.Context, req models.SessionRequest) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Subjects: req.Subjects,
	}

	query := `INSERT INTO users (id, email, name, role, subjects, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			subjects = EXCLUDED.subjects,
			last_login_at = EXCLUDED.last_login_at
		RETURNING id, created_at`

	now := time.Now()
	user.LastLoginAt = &now

	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, string(user.Role), user.Subjects, now,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	var role string
	query := `SELECT id, email, name, role, subjects, created_at, last_login_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &role, &user.Subjects, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return user, nil
}
