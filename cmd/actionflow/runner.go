package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kbukum/actionflow/flow"
	"github.com/kbukum/actionflow/process"
	"github.com/kbukum/actionflow/resilience"
	"github.com/kbukum/actionflow/util"
)

const (
	envPrefix = "ACTIONFLOW_"
	// maxOutput bounds the stdout kept as an output; longer output keeps its tail.
	maxOutput = 32 << 10
)

var (
	stdoutOutput   = flow.Port[string]{Key: "stdout"}
	exitCodeOutput = flow.Port[int]{Key: "exit_code"}
)

// commandRunner builds run callables that execute an action's command with
// the configured shell. A zero exit records ActionOk; anything else fails
// the action with the tail of its output. The command's stdout and exit
// code become outputs for dependent actions.
func commandRunner(adapter *process.Adapter, mux *outputMux) flow.RunnerFactory {
	return func(def flow.ActionDef) (flow.RunFunc, error) {
		if strings.TrimSpace(def.Command) == "" {
			return nil, fmt.Errorf("runner %q requires a command", flow.DefaultRunner)
		}

		policy := process.Policy{Timeout: def.Timeout}
		if def.Retry != nil {
			policy.Retry = resilience.RetryConfig{
				MaxAttempts:    def.Retry.Attempts,
				InitialBackoff: def.Retry.Backoff,
			}
		}

		return func(ctx context.Context, data *flow.State) (flow.Outcome, error) {
			cmd := adapter.Shell(def.Command)
			cmd.Dir = def.Dir
			cmd.Env = actionEnv(def, data.Snapshot(), needsOutputs(def, data))
			if mux != nil {
				w := mux.writer(def.Name)
				defer w.Flush()
				cmd.Stdout = w
				cmd.Stderr = w
			}

			res, err := adapter.Run(ctx, cmd, policy)
			if res != nil {
				flow.Write(data, stdoutOutput, trimOutput(res.Stdout))
				flow.Write(data, exitCodeOutput, res.ExitCode)
			}
			if err != nil {
				if tail := res.Tail(3); tail != "" {
					return nil, fmt.Errorf("%w\n%s", err, tail)
				}
				return nil, err
			}
			return flow.ActionOk, nil
		}, nil
	}
}

func trimOutput(stdout []byte) string {
	if len(stdout) > maxOutput {
		stdout = stdout[len(stdout)-maxOutput:]
	}
	return strings.TrimRight(string(stdout), "\n")
}

// needsOutputs collects the outputs of the action's finished dependencies.
func needsOutputs(def flow.ActionDef, data *flow.State) map[string]flow.Data {
	outputs := make(map[string]flow.Data)
	for _, deps := range [][]flow.DependencyDef{def.Needs, def.NeedsAnyOf} {
		for _, dep := range deps {
			name := dep.Dependency().Action
			if out, ok := data.Output(name); ok {
				outputs[name] = out
			}
		}
	}
	return outputs
}

// actionEnv exports data, the outputs of finished dependencies and the
// action's with parameters as ACTIONFLOW_* variables, followed by the
// action's own env which wins on conflict.
func actionEnv(def flow.ActionDef, data flow.Data, needs map[string]flow.Data) []string {
	env := []string{envPrefix + "ACTION=" + def.Name}
	env = append(env, exportVars(envPrefix, data)...)
	for _, name := range util.SortedKeys(needs) {
		env = append(env, exportVars(envPrefix+"NEEDS_"+envName(name)+"_", needs[name])...)
	}
	env = append(env, exportVars(envPrefix+"WITH_", def.With)...)

	for _, k := range util.SortedKeys(def.Env) {
		env = append(env, k+"="+def.Env[k])
	}
	return env
}

func exportVars(prefix string, values map[string]any) []string {
	vars := make([]string, 0, len(values))
	for _, k := range util.SortedKeys(values) {
		vars = append(vars, prefix+envName(k)+"="+envValue(values[k]))
	}
	return vars
}

// envName upper-cases key and replaces anything outside [A-Z0-9_] with "_".
func envName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// envValue renders scalars as text and everything else as JSON.
func envValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// outputMux interleaves action output line by line, each line prefixed
// with its action name.
type outputMux struct {
	mu  sync.Mutex
	out io.Writer
}

func newOutputMux(out io.Writer) *outputMux {
	return &outputMux{out: out}
}

func (m *outputMux) writer(action string) *prefixWriter {
	return &prefixWriter{mux: m, prefix: "[" + action + "] "}
}

type prefixWriter struct {
	mux    *outputMux
	prefix string
	mu     sync.Mutex
	buf    bytes.Buffer
}

// Write emits complete lines; a trailing partial line waits for its newline
// or Flush.
func (w *prefixWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		if err := w.emit(w.buf.Next(i + 1)); err != nil {
			return len(p), err
		}
	}
}

// Flush emits a pending partial line with a newline appended.
func (w *prefixWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() == 0 {
		return
	}
	_ = w.emit(append(w.buf.Next(w.buf.Len()), '\n'))
}

func (w *prefixWriter) emit(line []byte) error {
	w.mux.mu.Lock()
	defer w.mux.mu.Unlock()
	_, err := fmt.Fprintf(w.mux.out, "%s%s", w.prefix, line)
	return err
}
