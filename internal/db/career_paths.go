package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-mentor/internal/types"
)

// SaveCareerPath replaces the user's stored career path with a new row.
// Concurrent saves for one user are serialized on the user row; the last commit wins.
func (db *DB) SaveCareerPath(ctx context.Context, in CareerPathInput) (*StoredCareerPath, error) {
	status := in.Status
	if status == "" {
		status = types.PathStatusValid
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, in.UserID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to save career path: user %s not found", in.UserID)
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM career_paths WHERE user_id = $1`, in.UserID); err != nil {
		return nil, fmt.Errorf("failed to delete previous career path: %w", err)
	}

	stored := &StoredCareerPath{
		UserID:  in.UserID,
		Content: in.Content,
		Status:  status,
		Reason:  in.Reason,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO career_paths (user_id, content, status, reason)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		in.UserID, in.Content, string(status), in.Reason,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert career path: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit career path: %w", err)
	}
	return stored, nil
}

// LatestCareerPath returns the user's newest career path, or nil if none
func (db *DB) LatestCareerPath(ctx context.Context, userID uuid.UUID) (*StoredCareerPath, error) {
	var (
		s      StoredCareerPath
		status string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, content, status, reason, created_at
		 FROM career_paths WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&s.ID, &s.UserID, &s.Content, &status, &s.Reason, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get career path: %w", err)
	}
	s.Status = types.PathStatus(status)
	return &s, nil
}
