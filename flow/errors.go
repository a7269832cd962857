package flow

import (
	"strings"

	"github.com/kbukum/actionflow/errors"
)

const messageHeader = "[actionflow]"

// FormatMessages renders diagnostic lines under the actionflow header.
func FormatMessages(messages ...string) string {
	return "\n" + messageHeader + "\n" + strings.Join(messages, "\n")
}

// CycleError reports a dependency cycle found while building the graph.
// Sequence lists the in-progress nodes of the traversal that closed the
// cycle, in stack order.
type CycleError struct {
	Sequence []string
}

func (e *CycleError) Error() string {
	return FormatMessages(
		"Action dependencies cycle detected in sequence:",
		strings.Join(e.Sequence, " -> "),
		"Check your actions definition.",
	)
}

// AppError converts the cycle into the shared error taxonomy.
func (e *CycleError) AppError() *errors.AppError {
	return errors.CycleDetected(e.Sequence)
}

// Is lets errors.Is(err, &errors.AppError{Code: errors.ErrCodeCycleDetected}) match.
func (e *CycleError) Is(target error) bool {
	t, ok := target.(*errors.AppError)
	return ok && t.Code == errors.ErrCodeCycleDetected
}
