package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
	// Attempts is the number of runs it took to produce this result.
	Attempts int
}

// Success reports whether the process exited with code 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Tail returns at most n trailing lines of stderr, or of stdout when stderr
// is empty. It is meant for error messages.
func (r *Result) Tail(n int) string {
	if r == nil {
		return ""
	}
	out := strings.TrimRight(string(r.Stderr), "\n")
	if out == "" {
		out = strings.TrimRight(string(r.Stdout), "\n")
	}
	lines := strings.Split(out, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
