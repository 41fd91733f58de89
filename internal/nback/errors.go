package nback

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by StartGame after the engine has been closed.
var ErrClosed = errors.New("nback: engine closed")

// ErrNoDistinctSequence is returned when a second sequence identical to the
// first keeps coming out of the generator.
var ErrNoDistinctSequence = errors.New("nback: could not generate a distinct sequence")

// ConfigurationError reports a game configuration that cannot be played.
// It is returned synchronously and the engine keeps its prior state.
type ConfigurationError struct {
	Field  string // Setting name, e.g. "n_back"
	Value  int    // Offending value
	Reason string // Human-readable constraint
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("nback: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func configErr(field string, value int, format string, args ...any) error {
	return &ConfigurationError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	}
}
