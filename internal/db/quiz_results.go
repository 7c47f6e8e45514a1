package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-mentor/internal/types"
)

// SaveQuizResult stores a quiz submission and its recommendation text
func (db *DB) SaveQuizResult(ctx context.Context, userID uuid.UUID, answers types.QuizAnswerSet, aiResult string) (*types.QuizResult, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz answers: %w", err)
	}

	result := &types.QuizResult{UserID: userID, QuizAnswers: answers, AIResult: aiResult}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO quiz_results (user_id, quiz_answers, ai_result)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		userID, answersJSON, aiResult,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save quiz result: %w", err)
	}
	return result, nil
}

func scanQuizResult(row pgx.Row) (*types.QuizResult, error) {
	var (
		r           types.QuizResult
		answersJSON []byte
	)
	if err := row.Scan(&r.ID, &r.UserID, &answersJSON, &r.AIResult, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersJSON, &r.QuizAnswers); err != nil {
		return nil, fmt.Errorf("failed to decode quiz answers: %w", err)
	}
	return &r, nil
}

// LatestQuizResult returns the newest quiz result for a user, or nil if none
func (db *DB) LatestQuizResult(ctx context.Context, userID uuid.UUID) (*types.QuizResult, error) {
	r, err := scanQuizResult(db.pool.QueryRow(ctx,
		`SELECT id, user_id, quiz_answers, ai_result, created_at
		 FROM quiz_results WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest quiz result: %w", err)
	}
	return r, nil
}

// ListQuizResults returns a user's quiz results, newest first
func (db *DB) ListQuizResults(ctx context.Context, userID uuid.UUID, limit int) ([]types.QuizResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, quiz_answers, ai_result, created_at
		 FROM quiz_results WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	defer rows.Close()

	results := []types.QuizResult{}
	for rows.Next() {
		r, err := scanQuizResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz results: %w", err)
	}
	return results, nil
}

// ListSignups returns every user with their latest quiz result, newest signup first
func (db *DB) ListSignups(ctx context.Context) ([]types.Signup, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT u.email, u.name, u.created_at,
		        q.id, q.user_id, q.quiz_answers, q.ai_result, q.created_at
		 FROM users u
		 LEFT JOIN LATERAL (
		     SELECT id, user_id, quiz_answers, ai_result, created_at
		     FROM quiz_results WHERE user_id = u.id
		     ORDER BY created_at DESC LIMIT 1
		 ) q ON TRUE
		 ORDER BY u.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	signups := []types.Signup{}
	for rows.Next() {
		var (
			s           types.Signup
			quizID      *uuid.UUID
			quizUserID  *uuid.UUID
			answersJSON []byte
			aiResult    *string
			quizCreated *time.Time
		)
		if err := rows.Scan(&s.Email, &s.Name, &s.CreatedAt,
			&quizID, &quizUserID, &answersJSON, &aiResult, &quizCreated); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		if quizID != nil {
			q := &types.QuizResult{ID: *quizID, UserID: *quizUserID}
			if aiResult != nil {
				q.AIResult = *aiResult
			}
			if quizCreated != nil {
				q.CreatedAt = *quizCreated
			}
			if err := json.Unmarshal(answersJSON, &q.QuizAnswers); err != nil {
				return nil, fmt.Errorf("failed to decode quiz answers: %w", err)
			}
			s.QuizResponse = q
		}
		signups = append(signups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signups: %w", err)
	}
	return signups, nil
}
