package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph construction errors
const (
	// ErrCodeInvalidAction indicates an action spec cannot be turned into a node.
	ErrCodeInvalidAction ErrorCode = "INVALID_ACTION"
	// ErrCodeUnknownDependency indicates a dependency names an action that does not exist.
	ErrCodeUnknownDependency ErrorCode = "UNKNOWN_DEPENDENCY"
	// ErrCodeCycleDetected indicates the dependency graph contains a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
)

// Run errors
const (
	// ErrCodeDataProviderFailed indicates a workflow or action data provider failed.
	ErrCodeDataProviderFailed ErrorCode = "DATA_PROVIDER_FAILED"
	// ErrCodeActionFailed indicates an action run callable failed.
	ErrCodeActionFailed ErrorCode = "ACTION_FAILED"
)

// Definition errors
const (
	// ErrCodeNotFound indicates the requested workflow or runner was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates a workflow definition is malformed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// ErrCodeInternal indicates a recovered panic.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var fatalCodes = map[ErrorCode]bool{
	ErrCodeInvalidAction:      true,
	ErrCodeUnknownDependency:  true,
	ErrCodeCycleDetected:      true,
	ErrCodeDataProviderFailed: true,
	ErrCodeInternal:           true,
	ErrCodeActionFailed:       false,
}

// IsFatalCode reports whether an error with this code aborts a whole run
// rather than a single action.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
