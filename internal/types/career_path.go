package types

import (
	"time"

	"github.com/google/uuid"
)

// PhaseKeys are the fixed top-level keys of a career path, in order.
var PhaseKeys = [4]string{"phase_1", "phase_2", "phase_3", "phase_4"}

// CareerPhase is one stage of a career roadmap.
type CareerPhase struct {
	Title           string   `json:"title"`
	Duration        string   `json:"duration"`
	Skills          []string `json:"skills"`
	Resources       []string `json:"resources"`
	ActionableSteps []string `json:"actionable_steps"`
}

// CareerPath is a four-phase career roadmap. Phases are addressed by position only.
type CareerPath struct {
	Phase1 CareerPhase `json:"phase_1"`
	Phase2 CareerPhase `json:"phase_2"`
	Phase3 CareerPhase `json:"phase_3"`
	Phase4 CareerPhase `json:"phase_4"`
}

// Phases returns the four phases in order.
func (p *CareerPath) Phases() [4]*CareerPhase {
	return [4]*CareerPhase{&p.Phase1, &p.Phase2, &p.Phase3, &p.Phase4}
}

// Clone returns a deep copy of the path.
func (p CareerPath) Clone() CareerPath {
	out := p
	for _, ph := range out.Phases() {
		ph.Skills = cloneStrings(ph.Skills)
		ph.Resources = cloneStrings(ph.Resources)
		ph.ActionableSteps = cloneStrings(ph.ActionableSteps)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

// PathStatus records how a stored career path was produced.
type PathStatus string

const (
	// PathStatusValid means the generated text normalized successfully.
	PathStatusValid PathStatus = "valid"
	// PathStatusDefaulted means the fixed default path was substituted.
	PathStatusDefaulted PathStatus = "defaulted"
)

// CareerPathRecord is a persisted career path for a user.
type CareerPathRecord struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Status    PathStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	CareerPath
}

// QuizResult is a persisted quiz submission with its generated recommendation.
type QuizResult struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	QuizAnswers QuizAnswerSet `json:"quiz_answers"`
	AIResult    string        `json:"ai_result"`
	CreatedAt   time.Time     `json:"created_at"`
}
