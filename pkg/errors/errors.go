package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of reminder failure.
type ErrorCode string

const (
	ErrCorruptLog              ErrorCode = "CORRUPT_LOG"              // cycle-terminating
	ErrNotificationUnavailable ErrorCode = "NOTIFICATION_UNAVAILABLE" // degrade to console
	ErrSoundUnavailable        ErrorCode = "SOUND_UNAVAILABLE"        // try next candidate
	ErrInteractionClosed       ErrorCode = "INTERACTION_CLOSED"       // treated as snooze
	ErrInvalidSlot             ErrorCode = "INVALID_SLOT"
	ErrInvalidConfig           ErrorCode = "INVALID_CONFIG"
	ErrInternal                ErrorCode = "INTERNAL"
)

// ReminderError is a structured error with a code, message and optional cause.
type ReminderError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *ReminderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ReminderError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must stop a reminder cycle.
func (e *ReminderError) Fatal() bool {
	switch e.Code {
	case ErrNotificationUnavailable, ErrSoundUnavailable, ErrInteractionClosed:
		return false
	}
	return true
}

// NewCorruptLog creates an error for a log file that exists but cannot be parsed.
func NewCorruptLog(path string, err error) *ReminderError {
	return &ReminderError{
		Code:    ErrCorruptLog,
		Message: fmt.Sprintf("medication log %s is unreadable", path),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewNotificationUnavailable creates an error for a missing notification backend.
func NewNotificationUnavailable(err error) *ReminderError {
	return &ReminderError{
		Code:    ErrNotificationUnavailable,
		Message: "desktop notifications not available",
		Err:     err,
	}
}

// NewSoundUnavailable creates an error for a sound candidate that could not be played.
func NewSoundUnavailable(candidate string, err error) *ReminderError {
	return &ReminderError{
		Code:    ErrSoundUnavailable,
		Message: fmt.Sprintf("cannot play %s", candidate),
		Details: map[string]any{"candidate": candidate},
		Err:     err,
	}
}

// NewInteractionClosed creates an error for a confirmation window closed without an answer.
func NewInteractionClosed() *ReminderError {
	return &ReminderError{
		Code:    ErrInteractionClosed,
		Message: "confirmation window closed before an answer was given",
	}
}

// NewInvalidSlot creates an error for an unknown slot key.
func NewInvalidSlot(key string, known []string) *ReminderError {
	return &ReminderError{
		Code:    ErrInvalidSlot,
		Message: fmt.Sprintf("unknown reminder slot %q (known: %v)", key, known),
		Details: map[string]any{"slot": key, "known": known},
	}
}

// NewInvalidConfig creates an error for a configuration that fails validation.
func NewInvalidConfig(msg string) *ReminderError {
	return &ReminderError{
		Code:    ErrInvalidConfig,
		Message: msg,
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(msg string, err error) *ReminderError {
	return &ReminderError{
		Code:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err, or any error it wraps, is a ReminderError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *ReminderError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}

// IsFatal reports whether err carries a ReminderError that must stop a cycle.
// Errors from outside this package are not fatal.
func IsFatal(err error) bool {
	var rErr *ReminderError
	if stderrors.As(err, &rErr) {
		return rErr.Fatal()
	}
	return false
}
