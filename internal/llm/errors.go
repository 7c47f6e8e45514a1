package llm

import (
	"errors"
	"fmt"
)

// ErrGenerationUnavailable is returned when neither the primary nor the fallback
// provider produced a response.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

// ProviderError describes a failed call to a single provider.
type ProviderError struct {
	Provider   ProviderKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// UnavailableError aggregates the provider failures behind ErrGenerationUnavailable.
type UnavailableError struct {
	Primary  error
	Fallback error
}

func (e *UnavailableError) Error() string {
	if e.Fallback == nil {
		return fmt.Sprintf("%v: primary failed (%v), no fallback configured", ErrGenerationUnavailable, e.Primary)
	}
	return fmt.Sprintf("%v: primary failed (%v), fallback failed (%v)", ErrGenerationUnavailable, e.Primary, e.Fallback)
}

// Is makes errors.Is(err, ErrGenerationUnavailable) match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrGenerationUnavailable
}

// truncate shortens provider response bodies for error messages.
func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
