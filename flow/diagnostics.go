package flow

import "github.com/kbukum/actionflow/logger"

// Reporter is the diagnostics sink for misuse warnings. Reports are
// fire-and-forget.
type Reporter interface {
	Report(messages ...string)
}

// LogReporter writes reports to a structured logger at warn level.
type LogReporter struct {
	log *logger.Logger
}

// NewLogReporter creates a Reporter backed by log. A nil log uses the
// global logger.
func NewLogReporter(log *logger.Logger) *LogReporter {
	if log == nil {
		log = logger.WithComponent("flow")
	}
	return &LogReporter{log: log}
}

// Report logs the formatted message block.
func (r *LogReporter) Report(messages ...string) {
	r.log.Warn(FormatMessages(messages...))
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(messages ...string)

// Report calls f.
func (f ReporterFunc) Report(messages ...string) { f(messages...) }
