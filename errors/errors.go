package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified actionflow error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal is true when the error aborts the whole run.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code, so errors.Is(err, &AppError{Code: c}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic fatal detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err, or anything it wraps, is an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// --- Constructors ---

// InvalidAction creates an error for an action spec that cannot be built.
func InvalidAction(action, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidAction, Message: fmt.Sprintf("action %q is invalid: %s", action, reason),
		Fatal: true, Details: map[string]any{"action": action},
	}
}

// UnknownDependency creates an error for a dependency on a missing action.
func UnknownDependency(action, dependency string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownDependency,
		Message: fmt.Sprintf("action %q depends on unknown action %q", action, dependency),
		Fatal:   true,
		Details: map[string]any{"action": action, "dependency": dependency},
	}
}

// CycleDetected creates an error for a dependency cycle through sequence.
func CycleDetected(sequence []string) *AppError {
	return &AppError{
		Code: ErrCodeCycleDetected, Message: "action dependencies contain a cycle",
		Fatal: true, Details: map[string]any{"sequence": sequence},
	}
}

// DataProviderFailed wraps a failing workflow or action data provider.
func DataProviderFailed(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDataProviderFailed, Message: fmt.Sprintf("%s data provider failed", provider),
		Fatal: true, Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// ActionFailed wraps the error returned (or panic raised) by an action.
func ActionFailed(action string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeActionFailed, Message: fmt.Sprintf("action %q failed", action),
		Details: map[string]any{"action": action}, Cause: cause,
	}
}

// NotFound creates an error for a workflow, include or runner that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %q was not found", resource, id),
		Details: details,
	}
}

// InvalidInput creates an error for a malformed definition field.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an error for struct validation failures.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates an error for a recovered panic.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "recovered from panic",
		Fatal: true, Cause: cause,
	}
}
