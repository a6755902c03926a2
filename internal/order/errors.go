package order

import (
	"errors"
	"strings"
)

// ErrUnknownName is returned by Apply when an ordering references a name
// that is not loaded.
var ErrUnknownName = errors.New("order references an unloaded name")

// ValidationError wraps a failed reconciliation so callers can surface every
// issue at once.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return "could not apply order due to the following issues:\n\n" + strings.Join(msgs, "\n\n")
}

// Err returns a *ValidationError when the result has issues, nil otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Issues: r.Issues}
}
