package quiz

import (
	"strings"
	"testing"

	"github.com/jonathan/career-mentor/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleAnswers() types.QuizAnswerSet {
	return types.QuizAnswerSet{
		0: "Remote and flexible",
		1: "Technical expertise",
		2: "Career advancement",
		3: "Self-study",
		4: "Individual contributor",
	}
}

func TestFormatAnswers_QuestionOrder(t *testing.T) {
	got := FormatAnswers(types.QuizAnswerSet{2: "Career advancement", 0: "Remote and flexible"})
	expected := "What type of work environment do you prefer?\nAnswer: Remote and flexible\n\n" +
		"What is your primary career goal?\nAnswer: Career advancement"
	assert.Equal(t, expected, got)
}

func TestFormatAnswers_UnknownIndex(t *testing.T) {
	got := FormatAnswers(types.QuizAnswerSet{7: "Something"})
	assert.Equal(t, "Question 8\nAnswer: Something", got)
}

func TestBuildCareerPathPrompt(t *testing.T) {
	prompt := BuildCareerPathPrompt(sampleAnswers())

	for _, key := range types.PhaseKeys {
		assert.Contains(t, prompt, `"`+key+`"`)
	}
	for _, field := range []string{"title", "duration", "skills", "resources", "actionable_steps"} {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, "5-7")
	assert.Contains(t, prompt, "How do you prefer to learn?\nAnswer: Self-study")
	assert.NotContains(t, prompt, "{{.")

	first := strings.Index(prompt, "Remote and flexible")
	last := strings.Index(prompt, "Individual contributor")
	assert.Less(t, first, last)
}

func TestBuildCareerPathPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildCareerPathPrompt(sampleAnswers()), BuildCareerPathPrompt(sampleAnswers()))
}

func TestBuildRecommendationPrompt(t *testing.T) {
	prompt := BuildRecommendationPrompt(sampleAnswers(), "seed-123")
	assert.Contains(t, prompt, "seed-123")
	assert.Contains(t, prompt, "job_offers")
	assert.Contains(t, prompt, "Answer: Technical expertise")
	assert.Equal(t, prompt, BuildRecommendationPrompt(sampleAnswers(), "seed-123"))
}
