package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-mentor/internal/types"
)

func testAnswers() types.QuizAnswerSet {
	return types.QuizAnswerSet{
		0: "Remote and flexible",
		1: "Technical expertise",
		2: "Career advancement",
		3: "Self-study",
		4: "Individual contributor",
	}
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	id, err := m.CreateUser(ctx, "Ada", "Ada@Example.com", "")
	require.NoError(t, err)

	_, err = m.CreateUser(ctx, "Other", "ada@example.com", "")
	require.Error(t, err)

	exists, err := m.CheckEmailExists(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := m.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.False(t, u.PasswordSet)

	require.NoError(t, m.UpdatePassword(ctx, id, "hash"))
	u, err = m.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.PasswordSet)
	assert.Equal(t, "hash", u.PasswordHash)

	missing, err := m.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, m.UpdatePassword(ctx, uuid.New(), "hash"))
}

func TestMemoryStore_QuizResults(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	userID, err := m.CreateUser(ctx, "Ada", "ada@example.com", "")
	require.NoError(t, err)

	latest, err := m.LatestQuizResult(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := testAnswers()
	_, err = m.SaveQuizResult(ctx, userID, first, "first")
	require.NoError(t, err)
	first[0] = "mutated after save"

	second := testAnswers()
	second[2] = "Work-life balance"
	_, err = m.SaveQuizResult(ctx, userID, second, "second")
	require.NoError(t, err)

	latest, err = m.LatestQuizResult(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.AIResult)
	assert.Equal(t, "Work-life balance", latest.QuizAnswers[2])

	history, err := m.ListQuizResults(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].AIResult)
	assert.Equal(t, "Remote and flexible", history[1].QuizAnswers[0])

	limited, err := m.ListQuizResults(ctx, userID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = m.SaveQuizResult(ctx, uuid.New(), testAnswers(), "x")
	assert.Error(t, err)
}

func TestMemoryStore_CareerPathReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	userID, err := m.CreateUser(ctx, "Ada", "ada@example.com", "")
	require.NoError(t, err)

	none, err := m.LatestCareerPath(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = m.SaveCareerPath(ctx, CareerPathInput{UserID: userID, Content: `{"phase_1":{}}`})
	require.NoError(t, err)
	saved, err := m.SaveCareerPath(ctx, CareerPathInput{
		UserID:  userID,
		Content: `{"phase_1":{"title":"New"}}`,
		Status:  types.PathStatusDefaulted,
		Reason:  "no_json",
	})
	require.NoError(t, err)

	latest, err := m.LatestCareerPath(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, saved.ID, latest.ID)
	assert.Equal(t, types.PathStatusDefaulted, latest.Status)

	rec, err := latest.Record()
	require.NoError(t, err)
	assert.Equal(t, "New", rec.Phase1.Title)
	assert.Equal(t, "no_json", rec.Reason)
}

func TestMemoryStore_ListSignups(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := m.CreateUser(ctx, "First", "first@example.com", "")
	require.NoError(t, err)
	_, err = m.CreateUser(ctx, "Second", "second@example.com", "")
	require.NoError(t, err)
	_, err = m.SaveQuizResult(ctx, first, testAnswers(), "rec")
	require.NoError(t, err)

	signups, err := m.ListSignups(ctx)
	require.NoError(t, err)
	require.Len(t, signups, 2)
	assert.Equal(t, "second@example.com", signups[0].Email)
	assert.Nil(t, signups[0].QuizResponse)
	require.NotNil(t, signups[1].QuizResponse)
	assert.Equal(t, "rec", signups[1].QuizResponse.AIResult)
}

func TestMemoryStore_DeleteUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id, err := m.CreateUser(ctx, "Ada", "ada@example.com", "")
	require.NoError(t, err)
	_, err = m.SaveQuizResult(ctx, id, testAnswers(), "rec")
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(ctx, id))
	u, err := m.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)
	signups, err := m.ListSignups(ctx)
	require.NoError(t, err)
	assert.Empty(t, signups)
}

func TestStoredCareerPath_RecordBadContent(t *testing.T) {
	s := &StoredCareerPath{ID: uuid.New(), Content: "not json"}
	_, err := s.Record()
	assert.Error(t, err)
}

func TestSchema_DeclaresTables(t *testing.T) {
	for _, table := range []string{"users", "quiz_results", "career_paths"} {
		assert.Contains(t, Schema(), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
