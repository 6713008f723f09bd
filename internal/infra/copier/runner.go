package copier

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"syncphotos/internal/logging"
)

// CommandError reports a command that exited unsuccessfully.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	output := strings.TrimSpace(e.Output)
	if output == "" {
		return fmt.Sprintf("command failed to run: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command failed to run: %s: %v: %s", e.Command, e.Err, output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes external commands, echoing them as "$ cmd" unless quiet.
type Runner struct {
	Logger logging.Logger
}

// Run executes name with args and returns its combined output. A non-zero
// exit is returned as a *CommandError.
func (r Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	line := cmd.String()
	if !r.Logger.Quiet {
		r.Logger.Infof("$ %s", line)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), &CommandError{Command: line, Output: out.String(), Err: err}
	}
	r.Logger.Debugf("%s", strings.TrimSpace(out.String()))
	return out.String(), nil
}
