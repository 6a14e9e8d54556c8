package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Signup is one mailing-list submission.
type Signup struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRepo persists mailing-list submissions.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS mailing_list_signups (
//   id SERIAL PRIMARY KEY,
//   username TEXT NOT NULL,
//   email TEXT NOT NULL,
//   created_at TIMESTAMPTZ NOT NULL
// );
type SignupRepo struct{}

// NewSignupRepo creates a new repository instance.
func NewSignupRepo() *SignupRepo {
	return &SignupRepo{}
}

// Save inserts one submission. Duplicate emails are allowed; the mailing
// list keeps every submission as received.
func (r *SignupRepo) Save(ctx context.Context, username, email string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	query := `
		INSERT INTO mailing_list_signups (username, email, created_at)
		VALUES ($1, $2, $3);
	`
	_, err := pool.Exec(ctx, query, username, email, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save signup: %w", err)
	}
	return nil
}

// List returns submissions newest first, capped at limit.
func (r *SignupRepo) List(ctx context.Context, limit int) ([]Signup, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, username, email, created_at
		FROM mailing_list_signups
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	signups, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Signup])
	if err != nil {
		return nil, fmt.Errorf("failed to scan signups: %w", err)
	}
	return signups, nil
}
