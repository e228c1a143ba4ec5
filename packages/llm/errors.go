package llm

import (
	"fmt"
	"strings"
)

// QuotaError marks a provider failure caused by rate limiting or quota
// exhaustion. The orchestrator may retry the next candidate model.
type QuotaError struct {
	Model  string
	Status int
	Err    error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("model %s out of quota (status %d): %v", e.Model, e.Status, e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// FatalError marks a provider failure that must abort the fallback chain
type FatalError struct {
	Model string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("model %s failed: %v", e.Model, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// classifyProviderError tags a raw provider error as quota-class or fatal.
// Status codes come from the typed SDK errors; the message check catches
// providers that wrap the status away.
func classifyProviderError(model string, status int, err error) error {
	message := strings.ToLower(err.Error())
	if status == 429 || status == 403 ||
		strings.Contains(message, "quota") || strings.Contains(message, "rate limit") {
		return &QuotaError{Model: model, Status: status, Err: err}
	}
	return &FatalError{Model: model, Err: err}
}
