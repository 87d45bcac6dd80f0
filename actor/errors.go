package actor

import (
	"errors"
	"fmt"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

var (
	// ErrInvalidArgument matches every *ValidationError
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRunFailed matches every *CallError
	ErrRunFailed = errors.New("actor run did not succeed")
)

// ValidationError reports an argument rejected before any request was made
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidArgument) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// CallError is returned by Call when the run finished without succeeding.
// Run is the last state observed, so callers can tell ABORTED from TIMED-OUT
// and FAILED without parsing the message.
type CallError struct {
	Run *entities.Run
}

// Error implements the error interface
func (e *CallError) Error() string {
	if e.Run == nil {
		return ErrRunFailed.Error()
	}
	return fmt.Sprintf("actor run %s of actor %s finished with status %s", e.Run.ID, e.Run.ActorID, e.Run.Status)
}

// Is lets errors.Is(err, ErrRunFailed) match
func (e *CallError) Is(target error) bool {
	return target == ErrRunFailed
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
