package collector

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// RunCommand executes an external command under the given timeout and
// returns its trimmed stdout. A deadline hit yields StatusTimeout with
// empty output; any other failure yields StatusError. Timed-out commands
// are not retried.
func RunCommand(ctx context.Context, timeout time.Duration, name string, args ...string) CmdResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return CmdResult{Status: StatusTimeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return CmdResult{Status: StatusError, ExitCode: exitErr.ExitCode()}
		}
		// Start failure (missing binary, bad permissions): no exit code.
		return CmdResult{Status: StatusError, ExitCode: -1}
	}

	return CmdResult{
		Output: strings.TrimSpace(stdout.String()),
		Status: StatusOK,
	}
}
