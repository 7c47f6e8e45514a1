// Package quiz renders quiz answers into prompts for the generation service.
package quiz

import (
	"sort"
	"strings"

	"github.com/jonathan/career-mentor/internal/prompts"
	"github.com/jonathan/career-mentor/internal/types"
)

const promptFile = "career.json"

// BuildCareerPathPrompt renders the four-phase career path prompt for a set of answers.
// It is a pure function of its input and never fails.
func BuildCareerPathPrompt(answers types.QuizAnswerSet) string {
	template := prompts.MustGet(promptFile, "career-path")
	return prompts.Format(template, map[string]string{
		"Answers": FormatAnswers(answers),
	})
}

// BuildRecommendationPrompt renders the free-form recommendation prompt.
// The seed nudges the producer away from generic output; callers supply it so the
// rendering itself stays deterministic.
func BuildRecommendationPrompt(answers types.QuizAnswerSet, seed string) string {
	template := prompts.MustGet(promptFile, "recommendation")
	return prompts.Format(template, map[string]string{
		"Answers": FormatAnswers(answers),
		"Seed":    seed,
	})
}

// FormatAnswers pairs each question label with the literal answer, in question order.
func FormatAnswers(answers types.QuizAnswerSet) string {
	indices := make([]int, 0, len(answers))
	for idx := range answers {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	blocks := make([]string, 0, len(indices))
	for _, idx := range indices {
		blocks = append(blocks, types.QuestionLabel(idx)+"\nAnswer: "+answers[idx])
	}
	return strings.Join(blocks, "\n\n")
}
