package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNotProvisioned reports that an interpreter binary does not exist,
// i.e. that side's virtual environment has not been set up.
var ErrNotProvisioned = errors.New("environment not provisioned")

// ChildProcessError reports a child process that was launched but did
// not exit cleanly. ExitCode is -1 when the process was killed (e.g.
// on timeout) or never returned an exit status.
type ChildProcessError struct {
	ExitCode int
	Output   string
}

func (e *ChildProcessError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("child process exited with code %d", e.ExitCode)
	}

	return fmt.Sprintf(
		"child process exited with code %d: %s",
		e.ExitCode, OutputTail(e.Output, 3),
	)
}

// Invoke runs argv[0] with the remaining arguments as a fresh child
// process and returns the wall-clock seconds between process creation
// and exit. Spawn overhead is part of what the benchmarks measure, so
// the clock runs around the child's full lifetime.
//
// The child's stdout and stderr are captured, never interleaved with
// the harness's own output; on failure they travel with the returned
// ChildProcessError. A missing interpreter fails with
// ErrNotProvisioned before anything is launched. A timeout of zero
// means no timeout; on expiry the child is killed and the attempt
// fails like any other crash.
func Invoke(
	ctx context.Context,
	argv []string,
	timeout time.Duration,
) (float64, error) {
	if _, err := os.Stat(argv[0]); err != nil {
		return 0, fmt.Errorf("interpreter %s: %w", argv[0], ErrNotProvisioned)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Seconds()

	if err != nil {
		code := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}

		out := output.String()
		if ctxErr := ctx.Err(); ctxErr != nil {
			out = strings.TrimSpace(out + "\n" + ctxErr.Error())
		}

		return elapsed, &ChildProcessError{ExitCode: code, Output: out}
	}

	return elapsed, nil
}

// OutputTail returns the last n non-blank lines of captured child
// output, joined for single-line logging.
func OutputTail(output string, n int) string {
	var lines []string

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, " | ")
}
