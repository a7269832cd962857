package process

import (
	"io"
	"time"
)

// DefaultShell runs Shell commands.
const DefaultShell = "sh"

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr receive a live copy of the captured output. May be nil.
	Stdout io.Writer
	Stderr io.Writer
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Shell returns a Command running script with "sh -c".
func Shell(script string) Command {
	return Command{Binary: DefaultShell, Args: []string{"-c", script}}
}

// String returns the command line for logs.
func (c Command) String() string {
	if c.Binary == DefaultShell && len(c.Args) == 2 && c.Args[0] == "-c" {
		return c.Args[1]
	}
	s := c.Binary
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}
