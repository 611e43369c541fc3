package genetic_paths

import (
	"errors"
	"fmt"
)

var (
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	ErrSerializationMismatch  = errors.New("serialized history does not match its declared counts")
	ErrGenerationInProgress   = errors.New("a generation is already running")
	ErrInvalidTransition      = errors.New("run state transition not allowed")
	ErrScrubOutOfRange        = errors.New("scrub index out of range")
	ErrNoPersistence          = errors.New("no persistence attached")
	ErrNoRuns                 = errors.New("no persisted runs")
)

// ConfigurationError is returned by Config.Validate. A run cannot start
// until it is fixed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
