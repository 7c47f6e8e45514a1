package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCareerPath_Clone(t *testing.T) {
	path := CareerPath{Phase1: CareerPhase{Title: "Foundation", Skills: []string{"Go", "SQL"}}}
	clone := path.Clone()
	clone.Phase1.Skills[0] = "Rust"

	assert.Equal(t, "Go", path.Phase1.Skills[0])
	assert.Nil(t, clone.Phase2.Skills)
}

func TestCareerPath_Phases(t *testing.T) {
	path := CareerPath{}
	for i, ph := range path.Phases() {
		ph.Title = PhaseKeys[i]
	}
	assert.Equal(t, "phase_1", path.Phase1.Title)
	assert.Equal(t, "phase_4", path.Phase4.Title)
}
