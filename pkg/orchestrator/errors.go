package orchestrator

import (
	"errors"
	"fmt"
)

// ValidationError reports a configuration input that failed pre-flight
// checks. Kind is one of the pipeline configuration sentinels, so callers
// can match it with errors.Is.
type ValidationError struct {
	Kind error
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
