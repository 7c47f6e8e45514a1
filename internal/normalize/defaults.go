package normalize

import "github.com/jonathan/career-mentor/internal/types"

// defaultPath is substituted whenever generated text cannot be normalized.
// It is never handed out directly; callers receive clones.
var defaultPath = types.CareerPath{
	Phase1: types.CareerPhase{
		Title:           "Foundation",
		Duration:        "3-6 months",
		Skills:          []string{"Basic Programming", "Version Control", "Problem Solving"},
		Resources:       []string{"FreeCodeCamp", "MDN Web Docs", "GitHub"},
		ActionableSteps: []string{"Learn fundamentals", "Build first project", "Join community"},
	},
	Phase2: types.CareerPhase{
		Title:           "Core Skills",
		Duration:        "6-12 months",
		Skills:          []string{"Framework Mastery", "Database Design", "API Development"},
		Resources:       []string{"Official Documentation", "Online Courses", "Practice Projects"},
		ActionableSteps: []string{"Master a framework", "Build full-stack app", "Contribute to open source"},
	},
	Phase3: types.CareerPhase{
		Title:           "Advanced",
		Duration:        "12-18 months",
		Skills:          []string{"System Design", "Cloud Services", "DevOps"},
		Resources:       []string{"AWS/Azure Certifications", "System Design Courses", "Industry Best Practices"},
		ActionableSteps: []string{"Design scalable systems", "Deploy to cloud", "Optimize performance"},
	},
	Phase4: types.CareerPhase{
		Title:           "Professional",
		Duration:        "Ongoing",
		Skills:          []string{"Leadership", "Architecture", "Mentorship"},
		Resources:       []string{"Industry Conferences", "Advanced Certifications", "Continuous Learning"},
		ActionableSteps: []string{"Lead projects", "Mentor others", "Stay updated with trends"},
	},
}

var defaultCanonical = mustCanonical(defaultPath)

// DefaultCareerPath returns a copy of the fixed fallback path.
func DefaultCareerPath() types.CareerPath {
	return defaultPath.Clone()
}

func mustCanonical(p types.CareerPath) string {
	s, err := Canonical(p)
	if err != nil {
		panic("normalize: default career path does not encode: " + err.Error())
	}
	return s
}
