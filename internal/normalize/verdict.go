package normalize

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/career-mentor/internal/schemas"
	"github.com/jonathan/career-mentor/internal/types"
)

// Reason explains why a candidate was rejected.
type Reason string

const (
	// ReasonNone marks a valid verdict.
	ReasonNone Reason = ""
	// ReasonNoJSON means no JSON object could be extracted from the text.
	ReasonNoJSON Reason = "no_json"
	// ReasonInvalidShape means a JSON object was found but lacked the required phases.
	ReasonInvalidShape Reason = "invalid_shape"
)

// Verdict is the outcome of validating a candidate: either a typed path or a reason.
type Verdict struct {
	path   *types.CareerPath
	reason Reason
	detail string
}

// Valid reports whether the verdict carries a path.
func (v Verdict) Valid() bool { return v.path != nil }

// Path returns the validated path, or nil for an invalid verdict.
func (v Verdict) Path() *types.CareerPath { return v.path }

// Reason returns why the verdict is invalid.
func (v Verdict) Reason() Reason { return v.reason }

// Detail returns extra diagnostic text for an invalid verdict.
func (v Verdict) Detail() string { return v.detail }

func invalid(reason Reason, detail string) Verdict {
	return Verdict{reason: reason, detail: detail}
}

// ValidateCareerPath checks a JSON candidate against the career path schema and decodes it.
func ValidateCareerPath(candidate string) Verdict {
	if err := schemas.ValidateCareerPath(candidate); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return invalid(ReasonInvalidShape, strings.Join(verr.Fields(), ","))
		}
		return invalid(ReasonNoJSON, err.Error())
	}

	var path types.CareerPath
	if err := json.Unmarshal([]byte(candidate), &path); err != nil {
		return invalid(ReasonInvalidShape, err.Error())
	}
	return Verdict{path: &path}
}
