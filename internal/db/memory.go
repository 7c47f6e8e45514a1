package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-mentor/internal/types"
)

// MemoryStore is an in-process store with the same contract as DB. It is used when
// no database URL is configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*User
	order       []uuid.UUID
	quizResults map[uuid.UUID][]types.QuizResult
	careerPaths map[uuid.UUID]StoredCareerPath
	now         func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uuid.UUID]*User),
		quizResults: make(map[uuid.UUID][]types.QuizResult),
		careerPaths: make(map[uuid.UUID]StoredCareerPath),
		now:         time.Now,
	}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// CreateUser inserts a user without a password and returns its ID.
func (m *MemoryStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return uuid.Nil, fmt.Errorf("failed to create user: email %s already exists", email)
		}
	}
	now := m.now()
	u := &User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	m.order = append(m.order, u.ID)
	return u.ID, nil
}

// GetUser returns a copy of the user, or nil if absent.
func (m *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// GetUserByEmail returns a copy of the user, or nil if absent.
func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// CheckEmailExists reports whether an account uses the email.
func (m *MemoryStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

// UpdatePassword sets the password hash and marks the password as set.
func (m *MemoryStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("failed to update password: user %s not found", id)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = m.now()
	return nil
}

// DeleteUser removes a user with their quiz results and career path.
func (m *MemoryStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.quizResults, id)
	delete(m.careerPaths, id)
	for i, uid := range m.order {
		if uid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// SaveQuizResult stores a quiz submission.
func (m *MemoryStore) SaveQuizResult(_ context.Context, userID uuid.UUID, answers types.QuizAnswerSet, aiResult string) (*types.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return nil, fmt.Errorf("failed to save quiz result: user %s not found", userID)
	}
	r := types.QuizResult{
		ID:          uuid.New(),
		UserID:      userID,
		QuizAnswers: cloneAnswers(answers),
		AIResult:    aiResult,
		CreatedAt:   m.now(),
	}
	m.quizResults[userID] = append(m.quizResults[userID], r)
	out := r
	out.QuizAnswers = cloneAnswers(r.QuizAnswers)
	return &out, nil
}

// LatestQuizResult returns the newest quiz result, or nil if none.
func (m *MemoryStore) LatestQuizResult(_ context.Context, userID uuid.UUID) (*types.QuizResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestQuizLocked(userID), nil
}

func (m *MemoryStore) latestQuizLocked(userID uuid.UUID) *types.QuizResult {
	results := m.quizResults[userID]
	if len(results) == 0 {
		return nil
	}
	r := results[len(results)-1]
	r.QuizAnswers = cloneAnswers(r.QuizAnswers)
	return &r
}

// ListQuizResults returns quiz results newest first.
func (m *MemoryStore) ListQuizResults(_ context.Context, userID uuid.UUID, limit int) ([]types.QuizResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.quizResults[userID]
	out := make([]types.QuizResult, 0, len(results))
	for i := len(results) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		r := results[i]
		r.QuizAnswers = cloneAnswers(r.QuizAnswers)
		out = append(out, r)
	}
	return out, nil
}

// ListSignups returns users newest first with their latest quiz result.
func (m *MemoryStore) ListSignups(_ context.Context) ([]types.Signup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Signup, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		u := m.users[m.order[i]]
		out = append(out, types.Signup{
			Email:        u.Email,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
			QuizResponse: m.latestQuizLocked(u.ID),
		})
	}
	return out, nil
}

// SaveCareerPath replaces the user's stored career path.
func (m *MemoryStore) SaveCareerPath(_ context.Context, in CareerPathInput) (*StoredCareerPath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[in.UserID]; !ok {
		return nil, fmt.Errorf("failed to save career path: user %s not found", in.UserID)
	}
	status := in.Status
	if status == "" {
		status = types.PathStatusValid
	}
	s := StoredCareerPath{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Content:   in.Content,
		Status:    status,
		Reason:    in.Reason,
		CreatedAt: m.now(),
	}
	m.careerPaths[in.UserID] = s
	return &s, nil
}

// LatestCareerPath returns the stored career path, or nil if none.
func (m *MemoryStore) LatestCareerPath(_ context.Context, userID uuid.UUID) (*StoredCareerPath, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.careerPaths[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func cloneAnswers(a types.QuizAnswerSet) types.QuizAnswerSet {
	if a == nil {
		return nil
	}
	out := make(types.QuizAnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
