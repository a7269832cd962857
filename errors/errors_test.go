package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Fatal(t *testing.T) {
	err := New(ErrCodeCycleDetected, "cycle")
	if !err.Fatal {
		t.Error("CYCLE_DETECTED should be fatal")
	}

	err = New(ErrCodeActionFailed, "failed")
	if err.Fatal {
		t.Error("ACTION_FAILED should not be fatal")
	}
}

func TestAppError_UnknownDependency(t *testing.T) {
	err := UnknownDependency("build", "lint")
	if err.Code != ErrCodeUnknownDependency {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %s", err.Code)
	}
	if err.Details["action"] != "build" || err.Details["dependency"] != "lint" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if !strings.Contains(err.Error(), `"lint"`) {
		t.Errorf("expected dependency name in message, got %q", err.Error())
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("workflow", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_DataProviderFailed_Unwrap(t *testing.T) {
	cause := fmt.Errorf("backend down")
	err := DataProviderFailed("workflow", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !err.Fatal {
		t.Error("data provider failures abort the run")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidInput("actions", "empty").WithDetails(map[string]any{"file": "a.yaml"})
	if err.Details["field"] != "actions" {
		t.Errorf("expected field=actions, got %v", err.Details["field"])
	}
	if err.Details["file"] != "a.yaml" {
		t.Errorf("expected file=a.yaml, got %v", err.Details["file"])
	}
}

func TestAppError_Internal(t *testing.T) {
	cause := fmt.Errorf("action panicked: boom")
	err := Internal(cause)
	if err.Code != ErrCodeInternal || !err.Fatal {
		t.Errorf("unexpected internal error: %+v", err)
	}
	if err.Unwrap() != cause {
		t.Errorf("expected cause to unwrap, got %v", err.Unwrap())
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{Code: ErrCodeInternal}
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeNotFound, "missing")
	if err.Error() != "NOT_FOUND: missing" {
		t.Errorf("unexpected format: %q", err.Error())
	}

	err.WithCause(fmt.Errorf("disk"))
	if err.Error() != "NOT_FOUND: missing (cause: disk)" {
		t.Errorf("unexpected format with cause: %q", err.Error())
	}
}

func TestIsCode_Table(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NotFound("runner", "shell"))

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct match", InvalidAction("a", "no run"), ErrCodeInvalidAction, true},
		{"wrapped match", wrapped, ErrCodeNotFound, true},
		{"wrong code", wrapped, ErrCodeInvalidInput, false},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCode(tc.err, tc.code); got != tc.want {
				t.Errorf("IsCode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAppError_IsByCode(t *testing.T) {
	err := fmt.Errorf("run: %w", CycleDetected([]string{"a", "b"}))
	if !stderrors.Is(err, &AppError{Code: ErrCodeCycleDetected}) {
		t.Error("expected errors.Is to match by code")
	}
	if stderrors.Is(err, &AppError{Code: ErrCodeNotFound}) {
		t.Error("expected errors.Is not to match a different code")
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var _ error = &AppError{}
}
