package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	terr "netemlab/internal/errors"
)

const (
	defaultShell   = "bash"
	defaultTimeout = 60 * time.Second
)

// Result is the outcome of a script that ran to completion.
type Result struct {
	ExitCode int
	// Output is stdout followed by stderr, trimmed of surrounding whitespace.
	Output string
}

// OK reports whether the script exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// CommandExecutor abstracts process execution.
type CommandExecutor interface {
	Run(ctx context.Context, name string, args []string) (stdout, stderr string, err error)
}

// Settings configures a ShellRunner.
type Settings struct {
	// Shell is the interpreter invoked with -lc.
	Shell string
	// Timeout bounds a single script run.
	Timeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if strings.TrimSpace(s.Shell) == "" {
		s.Shell = defaultShell
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	return s
}

// ShellRunner runs a rendered script as one unit in a login shell so that
// sudo and the operator's PATH behave as in a terminal.
type ShellRunner struct {
	logger   *slog.Logger
	settings Settings
	executor CommandExecutor
}

// NewShellRunner constructs a ShellRunner backed by real processes.
func NewShellRunner(logger *slog.Logger, settings Settings) *ShellRunner {
	return NewShellRunnerWithExecutor(logger, settings, processExecutor{})
}

// NewShellRunnerWithExecutor constructs a ShellRunner with an injected executor.
func NewShellRunnerWithExecutor(logger *slog.Logger, settings Settings, executor CommandExecutor) *ShellRunner {
	return &ShellRunner{
		logger:   logger,
		settings: settings.withDefaults(),
		executor: ensureExecutor(executor),
	}
}

// Run executes script and returns its exit code and output. A nonzero exit is
// reported through Result; an error means the script could not run to
// completion, because the shell failed to start or the timeout expired.
func (r *ShellRunner) Run(ctx context.Context, script string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.settings.Timeout)
	defer cancel()

	started := time.Now()
	stdout, stderr, err := r.executor.Run(ctx, r.settings.Shell, []string{"-lc", script})
	result := Result{Output: strings.TrimSpace(stdout + stderr)}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			result.ExitCode = -1
			return result, terr.Execution(fmt.Errorf("script did not finish: %w", ctx.Err()), "run_script",
				terr.ErrorContext{Command: r.settings.Shell, Value: r.settings.Timeout.String()})
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			result.ExitCode = -1
			return result, terr.Execution(fmt.Errorf("start %s: %w", r.settings.Shell, err), "run_script",
				terr.ErrorContext{Command: r.settings.Shell})
		}
	}

	if r.logger != nil {
		r.logger.Info("script finished",
			slog.Int("exit_code", result.ExitCode),
			slog.Duration("elapsed", time.Since(started)),
			slog.Int("output_bytes", len(result.Output)))
	}
	return result, nil
}

type processExecutor struct{}

func (processExecutor) Run(ctx context.Context, name string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func ensureExecutor(executor CommandExecutor) CommandExecutor {
	if executor != nil {
		return executor
	}
	return processExecutor{}
}
