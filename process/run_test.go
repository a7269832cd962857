package process_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/actionflow/errors"
	"github.com/kbukum/actionflow/process"
)

func TestRunShell(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantExit   int
		wantErr    bool
		wantStdout string
		wantStderr string
	}{
		{"stdout", "echo hello world", 0, false, "hello world", ""},
		{"stderr", "echo oops >&2", 0, false, "", "oops"},
		{"exit code", "echo partial; exit 42", 42, true, "partial", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := process.Run(context.Background(), process.Shell(tc.script))
			if tc.wantErr != (err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}
			if result.ExitCode != tc.wantExit {
				t.Fatalf("expected exit code %d, got %d", tc.wantExit, result.ExitCode)
			}
			if got := strings.TrimSpace(string(result.Stdout)); got != tc.wantStdout {
				t.Errorf("expected stdout %q, got %q", tc.wantStdout, got)
			}
			if got := strings.TrimSpace(string(result.Stderr)); got != tc.wantStderr {
				t.Errorf("expected stderr %q, got %q", tc.wantStderr, got)
			}
			if result.Success() != (tc.wantExit == 0) {
				t.Errorf("Success() mismatch for exit %d", result.ExitCode)
			}
		})
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := string(result.Stdout); out != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", out)
	}
}

func TestRunTeesOutput(t *testing.T) {
	var live bytes.Buffer
	cmd := process.Shell("echo streamed")
	cmd.Stdout = &live

	result, err := process.Run(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if live.String() != "streamed\n" {
		t.Errorf("expected live copy, got %q", live.String())
	}
	if string(result.Stdout) != "streamed\n" {
		t.Errorf("expected captured output, got %q", string(result.Stdout))
	}
}

func TestRunDirAndEnv(t *testing.T) {
	dir := t.TempDir()
	cmd := process.Shell(`printf "%s" "$STAGE" > marker`)
	cmd.Dir = dir
	cmd.Env = []string{"STAGE=deploy"}

	if _, err := process.Run(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "marker"))
	if err != nil {
		t.Fatalf("expected marker in working dir: %v", err)
	}
	if string(data) != "deploy" {
		t.Errorf("expected env value, got %q", string(data))
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := process.Command{Binary: "sleep", Args: []string{"10"}, GracePeriod: 500 * time.Millisecond}
	result, err := process.Run(ctx, cmd)
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
	if result.Success() {
		t.Error("killed process must not report success")
	}
}

func TestRunEmptyBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  process.Command
		want string
	}{
		{process.Shell("make test"), "make test"},
		{process.Command{Binary: "go", Args: []string{"test", "./..."}}, "go test ./..."},
		{process.Command{Binary: "true"}, "true"},
	}
	for _, tc := range tests {
		if got := tc.cmd.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestResultTail(t *testing.T) {
	tests := []struct {
		name   string
		result *process.Result
		want   string
	}{
		{"nil", nil, ""},
		{"stderr preferred", &process.Result{Stdout: []byte("out\n"), Stderr: []byte("a\nb\nc\n")}, "b\nc"},
		{"stdout fallback", &process.Result{Stdout: []byte("only\n")}, "only"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Tail(2); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
