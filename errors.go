package resredis

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hupe1980/resredis/store"
)

var (
	// ErrConfiguration is returned when an Engine cannot be built from its Config.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound is returned when a record hash is absent or has no fields.
	ErrNotFound = errors.New("record not found")

	// ErrUnsupported is returned by operations that have no meaning for a Redis
	// backed engine, such as bulk load.
	ErrUnsupported = errors.New("operation not supported")

	// ErrStore is matched by every transport or protocol failure reported by Redis.
	ErrStore = errors.New("store failure")
)

// ConfigError describes an invalid configuration field.
//
// errors.Is(err, ErrConfiguration) reports true for every ConfigError.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid configuration: %s: %s: %v", e.Field, e.Reason, e.cause)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigError) Unwrap() error { return e.cause }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Namespace string
	ID        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found in namespace %q", e.ID, e.Namespace)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Status returns the HTTP-style status of the error (404).
func (e *NotFoundError) Status() int { return http.StatusNotFound }

// StoreError wraps a failed Redis command.
//
// The original go-redis error can be accessed via errors.Unwrap.
type StoreError struct {
	Op    string
	Key   string
	cause error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s failed: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("store %s %q failed: %v", e.Op, e.Key, e.cause)
}

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func (e *StoreError) Unwrap() error { return e.cause }

// StepError reports which step of a multi-step operation failed.
//
// Save, Update and Destroy are ordered chains of store commands with no
// atomicity across steps; Step names the command that failed so the caller can
// tell what was left behind (see Engine.Save and Engine.Destroy).
type StepError struct {
	Op    string
	Step  Step
	ID    string
	cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %q: step %s: %v", e.Op, e.ID, e.Step, e.cause)
}

func (e *StepError) Unwrap() error { return e.cause }

// Step names one command in a multi-step operation.
type Step string

const (
	StepMint        Step = "mint"
	StepWriteHash   Step = "write-hash"
	StepIndex       Step = "index"
	StepReadBack    Step = "read-back"
	StepRead        Step = "read"
	StepDeleteHash  Step = "delete-hash"
	StepRemoveIndex Step = "remove-index"
)

func stepError(op string, step Step, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Op: op, Step: step, ID: id, cause: translateError(err)}
}

// StatusCode maps an error returned by the engine to an HTTP-style status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, ErrStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *store.Error
	if errors.As(err, &se) {
		return &StoreError{Op: se.Op, Key: se.Key, cause: se.Err}
	}

	return err
}
