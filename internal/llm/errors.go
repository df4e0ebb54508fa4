package llm

import "fmt"

// ModelOutputError indicates the model call itself succeeded but the
// returned text could not be used: it failed to parse as JSON or failed
// schema validation. Distinct from transport failures so callers can
// surface a generic "invalid AI output" message without echoing raw model
// text.
type ModelOutputError struct {
	Stage string // "parse" or "schema"
	Cause error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("invalid model output (%s): %v", e.Stage, e.Cause)
}

func (e *ModelOutputError) Unwrap() error {
	return e.Cause
}
