package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-mentor/internal/types"
)

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CareerPathInput is a normalized career path ready to be stored.
type CareerPathInput struct {
	UserID uuid.UUID
	// Content is the canonical JSON text of the path.
	Content string
	Status  types.PathStatus
	Reason  string
}

// StoredCareerPath is a career_paths row.
type StoredCareerPath struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	Status    types.PathStatus
	Reason    string
	CreatedAt time.Time
}

// Record decodes the stored canonical content.
func (s *StoredCareerPath) Record() (*types.CareerPathRecord, error) {
	rec := &types.CareerPathRecord{
		ID:        s.ID,
		UserID:    s.UserID,
		Status:    s.Status,
		Reason:    s.Reason,
		CreatedAt: s.CreatedAt,
	}
	if err := json.Unmarshal([]byte(s.Content), &rec.CareerPath); err != nil {
		return nil, fmt.Errorf("failed to decode career path %s: %w", s.ID, err)
	}
	return rec, nil
}
