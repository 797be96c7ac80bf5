// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package process runs external tools with a bounded lifetime.
//
// Every call blocks until the tool and all of its descendants are gone.
// On Unix the tool is started in its own process group; on deadline,
// cancellation, or normal exit the group is killed, so a tool that forks
// helpers (tsc watchers, cargo build scripts, gradle daemons) cannot leave
// orphans behind.
//
// The three outcomes callers must tell apart are distinct:
//
//	| Outcome          | Result              | Error              |
//	|------------------|---------------------|--------------------|
//	| Tool ran         | exit code + output  | nil                |
//	| Tool missing     | nil                 | wraps ErrNotFound  |
//	| Deadline reached | partial output, -1  | wraps ErrTimeout   |
package process

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

const (
	// DefaultTimeout bounds a tool invocation when the Command sets none.
	DefaultTimeout = 30 * time.Second

	// DefaultWaitDelay is how long Run waits for output pipes to drain
	// after the tool has been killed or has exited.
	DefaultWaitDelay = 2 * time.Second
)

// Command describes one tool invocation.
type Command struct {
	// Name is the executable, either a path or a name looked up on PATH.
	Name string

	// Args are passed verbatim.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Timeout overrides the runner default when positive.
	Timeout time.Duration

	// Env entries are appended to the current environment.
	Env []string
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the captured outcome of a tool run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	TimedOut bool
	PID      int
	Duration time.Duration
}

// Runner executes tools. The engine depends on this interface so tests
// can substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithDefaultTimeout sets the deadline used when a Command has none.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.defaultTimeout = d
		}
	}
}

// WithWaitDelay sets the pipe drain grace period.
func WithWaitDelay(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.waitDelay = d
		}
	}
}

// ExecRunner is the os/exec backed Runner.
//
// Thread Safety: Safe for concurrent use.
type ExecRunner struct {
	defaultTimeout time.Duration
	waitDelay      time.Duration
}

// NewExecRunner creates a runner with default limits.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		defaultTimeout: DefaultTimeout,
		waitDelay:      DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command and waits for it and its descendants.
//
// Description:
//
//	Resolves the executable, starts it in a fresh process group, and
//	buffers stdout and stderr. A non-zero exit status is not an error:
//	compilers exit non-zero when they find issues. The process group is
//	killed before Run returns in every case.
//
// Inputs:
//
//	ctx - Caller context; cancellation kills the tool
//	c - The command to run
//
// Outputs:
//
//	*Result - Captured output; nil only when the tool never started
//	error - Wraps ErrNotFound, ErrTimeout, ErrCanceled, ErrStart or ErrInvalidInput
//
// Thread Safety: Safe for concurrent use.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: empty command name", ErrInvalidInput)
	}

	path, err := exec.LookPath(c.Name)
	if err != nil {
		return nil, NewToolError(c.Name, ErrNotFound).WithCause(err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.waitDelay
	isolate(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return nil, NewToolError(c.Name, ErrNotFound).WithCause(err)
		}
		return nil, NewToolError(c.Name, ErrStart).WithCause(err)
	}

	pid := cmd.Process.Pid
	waitErr := cmd.Wait()
	reap(pid)

	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		PID:      pid,
		Duration: time.Since(start),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		res.ExitCode = -1
		res.TimedOut = true
		return res, NewToolError(c.Name, ErrTimeout).
			WithCause(fmt.Errorf("exceeded %s", timeout)).
			WithStderr(stderr.String())
	}

	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, NewToolError(c.Name, ErrCanceled).WithCause(ctx.Err())
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		case errors.Is(waitErr, exec.ErrWaitDelay):
			// The tool exited; a descendant held a pipe open until reaped.
			res.ExitCode = cmd.ProcessState.ExitCode()
			return res, nil
		default:
			res.ExitCode = -1
			return res, NewToolError(c.Name, ErrStart).WithCause(waitErr)
		}
	}

	res.ExitCode = 0
	return res, nil
}

// LookPath resolves an executable name on PATH, mapping failure to
// ErrNotFound.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", NewToolError(name, ErrNotFound).WithCause(err)
	}
	return path, nil
}

// isNotFound reports whether a start error means the executable is missing.
func isNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}
