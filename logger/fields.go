package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent      = "component"
	FieldRunID          = "run_id"
	FieldWorkflow       = "workflow"
	FieldAction         = "action"
	FieldStatus         = "status"
	FieldWorkflowStatus = "workflow_status"
	FieldNodeStatus     = "node_status"
	FieldOperation      = "operation"
	FieldError          = "error"
	FieldDuration       = "duration_ms"
	FieldSequence       = "sequence"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("action", "build", "status", "ok"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// ActionFields creates fields describing one action outcome.
func ActionFields(action, status string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldAction:   action,
		FieldStatus:   status,
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
