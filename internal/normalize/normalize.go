// Package normalize turns unreliable generated text into a validated career path,
// substituting a fixed default when the text cannot be used.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/types"
)

// ErrEmptyGeneration is returned when the generated text is empty or whitespace.
var ErrEmptyGeneration = errors.New("generation returned empty text")

// Result is a normalized career path with its canonical text.
type Result struct {
	Path      types.CareerPath
	Canonical string
	Status    types.PathStatus
	Reason    Reason
	// Detail carries the failing schema fields or parse error for a defaulted result.
	Detail string
}

// Defaulted reports whether the fixed default path was substituted.
func (r *Result) Defaulted() bool {
	return r.Status == types.PathStatusDefaulted
}

// Normalizer applies the extraction cascade and schema validation.
type Normalizer struct {
	strategies []Strategy
	logger     *zap.Logger
}

// New creates a Normalizer using DefaultStrategies.
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{strategies: DefaultStrategies, logger: logger}
}

// CareerPath normalizes raw text into a four-phase path. It only fails for empty
// input; anything unusable yields the default path.
func (n *Normalizer) CareerPath(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyGeneration
	}

	verdict := n.verdict(raw)
	if !verdict.Valid() {
		n.logger.Warn("substituting default career path",
			zap.String("reason", string(verdict.Reason())),
			zap.String("detail", verdict.Detail()),
			zap.Int("raw_length", len(raw)))
		return &Result{
			Path:      DefaultCareerPath(),
			Canonical: defaultCanonical,
			Status:    types.PathStatusDefaulted,
			Reason:    verdict.Reason(),
			Detail:    verdict.Detail(),
		}, nil
	}

	path := *verdict.Path()
	fillEmptyLists(&path)
	canonical, err := Canonical(path)
	if err != nil {
		return nil, fmt.Errorf("canonicalize career path: %w", err)
	}
	return &Result{
		Path:      path,
		Canonical: canonical,
		Status:    types.PathStatusValid,
	}, nil
}

func (n *Normalizer) verdict(raw string) Verdict {
	candidate, ok := ExtractObject(raw, n.strategies)
	if !ok {
		return invalid(ReasonNoJSON, "")
	}
	return ValidateCareerPath(candidate)
}

// Recommendation normalizes free-form recommendation text. A JSON object found in
// the text is returned re-encoded with sorted keys; otherwise the trimmed text is
// returned unchanged.
func (n *Normalizer) Recommendation(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyGeneration
	}

	candidate, ok := ExtractObject(raw, n.strategies)
	if !ok {
		return trimmed, nil
	}

	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return trimmed, nil
	}
	out, err := encode(obj)
	if err != nil {
		return trimmed, nil
	}
	return out, nil
}

// Canonical renders a path in its stored form: field order, two-space indent,
// no HTML escaping and empty lists as [].
func Canonical(p types.CareerPath) (string, error) {
	p = p.Clone()
	fillEmptyLists(&p)
	return encode(p)
}

func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func fillEmptyLists(p *types.CareerPath) {
	for _, ph := range p.Phases() {
		if ph.Skills == nil {
			ph.Skills = []string{}
		}
		if ph.Resources == nil {
			ph.Resources = []string{}
		}
		if ph.ActionableSteps == nil {
			ph.ActionableSteps = []string{}
		}
	}
}
