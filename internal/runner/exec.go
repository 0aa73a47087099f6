package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ExitNotStarted is reported when the runner executable could not be started.
const ExitNotStarted = 127

// VerboseArg is always passed so the runner lists each test.
const VerboseArg = "-v"

// Options configure how the runner executes the test command.
type Options struct {
	Root    string
	Command []string
	Args    []string
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string
}

// Invocation describes one run against a test path.
type Invocation struct {
	Path string
	// ReportFile, when set, asks the runner for a JSON report at this path
	// and switches output from streaming to capturing.
	ReportFile string
}

// Result captures the outcome of a single invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Captured bool
}

// Passed reports whether the runner exited cleanly.
func (r Result) Passed() bool {
	return r.ExitCode == 0
}

// Runner executes the configured test command.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if len(opts.Command) == 0 {
		opts.Command = []string{"pytest"}
	}
	opts.Command = append([]string{}, opts.Command...)
	opts.Args = append([]string{}, opts.Args...)
	return &Runner{opts: opts}
}

// Run executes the test command once and blocks until it exits. A non-zero
// exit from the runner is not an error; the returned error is set only when
// the process could not be started, in which case the result still carries
// ExitNotStarted and the cause in Stderr.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Result, error) {
	args := BuildArgs(r.opts.Command, inv.Path, r.opts.Args, inv.ReportFile)
	result := Result{Args: args, Captured: inv.ReportFile != ""}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.opts.Root
	cmd.Env = r.opts.Env

	var stdoutBuf, stderrBuf strings.Builder
	if result.Captured {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	} else {
		cmd.Stdout = r.opts.Stdout
		cmd.Stderr = r.opts.Stderr
	}

	err := cmd.Run()
	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.ExitCode = exitCode(err)

	if err != nil && !isExitError(err) {
		startErr := fmt.Errorf("start %s: %w", args[0], err)
		result.ExitCode = ExitNotStarted
		if result.Stderr != "" && !strings.HasSuffix(result.Stderr, "\n") {
			result.Stderr += "\n"
		}
		result.Stderr += startErr.Error()
		return result, startErr
	}
	return result, nil
}

// BuildArgs assembles the full command line: the runner command, the test
// path in verbose mode, any extra arguments, then the JSON report flags when
// reportFile is set.
func BuildArgs(command []string, path string, extra []string, reportFile string) []string {
	args := make([]string, 0, len(command)+len(extra)+5)
	args = append(args, command...)
	args = append(args, path, VerboseArg)
	args = append(args, extra...)
	if reportFile != "" {
		args = append(args, "--json-report", "--json-report-file", reportFile)
	}
	return args
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A signalled process reports minus the signal number.
		if status, ok := exitErr.Sys().(signalStatus); ok && status.Signaled() {
			return -int(status.Signal())
		}
		if status, ok := exitErr.Sys().(interface{ ExitStatus() int }); ok {
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 1
}

type signalStatus interface {
	Signaled() bool
	Signal() syscall.Signal
}
