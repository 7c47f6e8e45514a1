package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QuestionCount is the number of questions in the career assessment.
const QuestionCount = 5

// ErrIncompleteAnswers is returned when a QuizAnswerSet is missing an answer.
var ErrIncompleteAnswers = errors.New("every quiz question must be answered")

// Question is one multiple-choice question of the career assessment.
type Question struct {
	Label   string   `json:"question"`
	Options []string `json:"options"`
}

// questions is indexed by question position; order matters.
var questions = [QuestionCount]Question{
	{
		Label:   "What type of work environment do you prefer?",
		Options: []string{"Fast-paced startup", "Structured corporate", "Remote and flexible", "Collaborative team"},
	},
	{
		Label:   "Which skill area interests you most?",
		Options: []string{"Problem-solving", "Communication", "Technical expertise", "Leadership"},
	},
	{
		Label:   "What is your primary career goal?",
		Options: []string{"Higher salary", "Work-life balance", "Career advancement", "Creative fulfillment"},
	},
	{
		Label:   "How do you prefer to learn?",
		Options: []string{"Hands-on experience", "Formal education", "Self-study", "Mentorship"},
	},
	{
		Label:   "What level of responsibility do you want?",
		Options: []string{"Individual contributor", "Team lead", "Manager", "Executive level"},
	},
}

// Questions returns a copy of the assessment questions in order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = Question{Label: q.Label, Options: append([]string(nil), q.Options...)}
	}
	return out
}

// QuestionLabel returns the fixed label for a question index.
// Indices outside the assessment are labeled generically as "Question N".
func QuestionLabel(index int) string {
	if index >= 0 && index < QuestionCount {
		return questions[index].Label
	}
	return fmt.Sprintf("Question %d", index+1)
}

// QuizAnswerSet maps a question index to the user's answer.
type QuizAnswerSet map[int]string

// Validate reports ErrIncompleteAnswers unless every question has a non-empty answer.
func (a QuizAnswerSet) Validate() error {
	for i := 0; i < QuestionCount; i++ {
		if strings.TrimSpace(a[i]) == "" {
			return fmt.Errorf("%w: question %d has no answer", ErrIncompleteAnswers, i+1)
		}
	}
	return nil
}

// MarshalJSON encodes the set with string keys ("0".."4") like the stored quiz_answers column.
func (a QuizAnswerSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(a))
	for k, v := range a {
		m[strconv.Itoa(k)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts both index keys ("0".."4") and q-keys ("q1".."q5").
func (a *QuizAnswerSet) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(QuizAnswerSet, len(raw))
	for k, v := range raw {
		idx, err := parseAnswerKey(k)
		if err != nil {
			return err
		}
		out[idx] = v
	}
	*a = out
	return nil
}

func parseAnswerKey(key string) (int, error) {
	if strings.HasPrefix(key, "q") {
		n, err := strconv.Atoi(key[1:])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid answer key %q", key)
		}
		return n - 1, nil
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid answer key %q", key)
	}
	return n, nil
}

// QuizSubmission is the inbound request shape for quiz and career-path submissions.
type QuizSubmission struct {
	Q1 string `json:"q1" validate:"required,notblank"`
	Q2 string `json:"q2" validate:"required,notblank"`
	Q3 string `json:"q3" validate:"required,notblank"`
	Q4 string `json:"q4" validate:"required,notblank"`
	Q5 string `json:"q5" validate:"required,notblank"`
}

// Answers converts the submission into a QuizAnswerSet.
func (s *QuizSubmission) Answers() QuizAnswerSet {
	return QuizAnswerSet{0: s.Q1, 1: s.Q2, 2: s.Q3, 3: s.Q4, 4: s.Q5}
}

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate validates the QuizSubmission using the validator.
func (s *QuizSubmission) Validate() error {
	return NewValidator().Struct(s)
}
