// Package career runs the quiz-to-career-path pipeline: prompt building, generation,
// normalization and persistence.
package career

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/db"
	"github.com/jonathan/career-mentor/internal/llm"
	"github.com/jonathan/career-mentor/internal/normalize"
	"github.com/jonathan/career-mentor/internal/quiz"
	"github.com/jonathan/career-mentor/internal/types"
)

// ErrNoQuiz is returned when a user has no stored quiz answers to generate from.
var ErrNoQuiz = errors.New("no quiz answers found")

// Generation settings per use.
const (
	careerPathTemperature     = 0.7
	careerPathMaxTokens       = 3000
	recommendationTemperature = 0.9
	recommendationMaxTokens   = 2000

	// DefaultGenerationBudget bounds a whole generation, fallback included.
	DefaultGenerationBudget = 5 * time.Minute
	historyLimit            = 50
)

// Store persists quiz results and career paths.
type Store interface {
	SaveQuizResult(ctx context.Context, userID uuid.UUID, answers types.QuizAnswerSet, aiResult string) (*types.QuizResult, error)
	LatestQuizResult(ctx context.Context, userID uuid.UUID) (*types.QuizResult, error)
	ListQuizResults(ctx context.Context, userID uuid.UUID, limit int) ([]types.QuizResult, error)
	SaveCareerPath(ctx context.Context, in db.CareerPathInput) (*db.StoredCareerPath, error)
	LatestCareerPath(ctx context.Context, userID uuid.UUID) (*db.StoredCareerPath, error)
}

// Generator produces raw text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Service coordinates generation and storage for quiz submissions and career paths.
type Service struct {
	store      Store
	generator  Generator
	normalizer *normalize.Normalizer
	logger     *zap.Logger
	budget     time.Duration
	newSeed    func() string
}

// NewService creates a Service.
func NewService(store Store, generator Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		generator:  generator,
		normalizer: normalize.New(logger),
		logger:     logger,
		budget:     DefaultGenerationBudget,
		newSeed:    uuid.NewString,
	}
}

// SetGenerationBudget overrides the overall generation deadline.
func (s *Service) SetGenerationBudget(d time.Duration) {
	if d > 0 {
		s.budget = d
	}
}

// generate ignores caller cancellation; only the service budget bounds it.
func (s *Service) generate(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.budget)
	defer cancel()
	return s.generator.Generate(ctx, req)
}

// SubmitQuiz generates a free-form recommendation for the answers and records the
// submission in the user's quiz history.
func (s *Service) SubmitQuiz(ctx context.Context, userID uuid.UUID, answers types.QuizAnswerSet) (string, error) {
	if err := answers.Validate(); err != nil {
		return "", err
	}

	raw, err := s.generate(ctx, llm.Request{
		Prompt:      quiz.BuildRecommendationPrompt(answers, s.newSeed()),
		Temperature: recommendationTemperature,
		MaxTokens:   recommendationMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate recommendation: %w", err)
	}

	aiResult, err := s.normalizer.Recommendation(raw)
	if err != nil {
		return "", err
	}

	if _, err := s.store.SaveQuizResult(context.WithoutCancel(ctx), userID, answers, aiResult); err != nil {
		s.logger.Error("failed to save quiz result",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	return aiResult, nil
}

// QuizHistory returns the user's quiz results, newest first.
func (s *Service) QuizHistory(ctx context.Context, userID uuid.UUID) ([]types.QuizResult, error) {
	results, err := s.store.ListQuizResults(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return results, nil
}

// GenerateCareerPath builds, normalizes and stores a career path for the answers,
// replacing any previous one. A storage failure is logged and the generated path is
// still returned, with a nil ID.
func (s *Service) GenerateCareerPath(ctx context.Context, userID uuid.UUID, answers types.QuizAnswerSet) (*types.CareerPathRecord, error) {
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, llm.Request{
		Prompt:      quiz.BuildCareerPathPrompt(answers),
		Temperature: careerPathTemperature,
		MaxTokens:   careerPathMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate career path: %w", err)
	}

	result, err := s.normalizer.CareerPath(raw)
	if err != nil {
		return nil, err
	}

	record := &types.CareerPathRecord{
		UserID:     userID,
		Status:     result.Status,
		Reason:     string(result.Reason),
		CreatedAt:  time.Now().UTC(),
		CareerPath: result.Path,
	}

	stored, err := s.store.SaveCareerPath(context.WithoutCancel(ctx), db.CareerPathInput{
		UserID:  userID,
		Content: result.Canonical,
		Status:  result.Status,
		Reason:  string(result.Reason),
	})
	if err != nil {
		s.logger.Error("failed to save career path",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return record, nil
	}

	record.ID = stored.ID
	record.CreatedAt = stored.CreatedAt
	s.logger.Info("career path stored",
		zap.String("user_id", userID.String()),
		zap.String("status", string(result.Status)),
		zap.String("reason", string(result.Reason)))
	return record, nil
}

// CareerPath returns the user's latest career path, generating one from their most
// recent quiz answers when none is stored.
func (s *Service) CareerPath(ctx context.Context, userID uuid.UUID) (*types.CareerPathRecord, error) {
	stored, err := s.store.LatestCareerPath(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load career path: %w", err)
	}
	if stored != nil {
		return stored.Record()
	}
	return s.Regenerate(ctx, userID)
}

// Regenerate replaces the user's career path with one generated from their most
// recent quiz answers.
func (s *Service) Regenerate(ctx context.Context, userID uuid.UUID) (*types.CareerPathRecord, error) {
	latest, err := s.store.LatestQuizResult(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load quiz answers: %w", err)
	}
	if latest == nil {
		return nil, ErrNoQuiz
	}
	return s.GenerateCareerPath(ctx, userID, latest.QuizAnswers)
}
