package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/reflekt/internal/logger"
)

// Engine error taxonomy. Callers match with errors.Is; store
// implementations wrap driver errors in one of these.
var (
	// ErrNotFound indicates an unknown user or missing record.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidInput indicates a malformed request, such as an empty user id
	// or an unsupported KPI period.
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrStoreUnavailable indicates the store could not be reached or timed out.
	ErrStoreUnavailable = stderrors.New("store unavailable")
	// ErrConflict indicates a concurrent write won the race for a record.
	ErrConflict = stderrors.New("concurrent update conflict")
)

// Is, As and Join forward to the standard library so callers importing this
// package under the name errors keep the usual helpers.
var (
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
	New  = stderrors.New
)

// Unavailable wraps err as a store availability failure.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// Invalid builds an ErrInvalidInput with a formatted reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound naming what was missing.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether the caller may retry the same request.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrStoreUnavailable) || stderrors.Is(err, ErrConflict)
}

// UserMessage returns text safe to show an end user. Persistence details
// never leak through it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRetryable(err):
		return "Something went wrong saving your progress, please try again shortly."
	case stderrors.Is(err, ErrNotFound):
		return "No reflections recorded yet. Write your first one to start a streak."
	case stderrors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return "Unexpected error, see the log for details."
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
