// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build unix

package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// groupAlive reports whether any member of the process group still exists.
func groupAlive(pgid int) bool {
	return unix.Kill(-pgid, 0) == nil
}

func TestRun_CapturesOutputAndExitCode(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
}

func TestRun_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{Name: "pwd", Dir: dir})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(string(res.Stdout[:len(res.Stdout)-1]))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_Env(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf %s \"$LANGCHECK_TEST\""},
		Env:  []string{"LANGCHECK_TEST=yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "yes", string(res.Stdout))
}

func TestRun_TimeoutKillsProcessGroup(t *testing.T) {
	r := NewExecRunner(WithWaitDelay(500 * time.Millisecond))
	deadline := 200 * time.Millisecond

	start := time.Now()
	res, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo started; sleep 30 & sleep 30; wait"},
		Timeout: deadline,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrNotFound))
	require.NotNil(t, res)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, "started\n", string(res.Stdout))
	assert.Less(t, elapsed, deadline+5*time.Second)

	assert.Eventually(t, func() bool {
		return !groupAlive(res.PID)
	}, 2*time.Second, 20*time.Millisecond, "process group %d still alive", res.PID)
}

func TestRun_CancelKillsProcessGroup(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	res, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 30"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)

	assert.Eventually(t, func() bool {
		return !groupAlive(res.PID)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRun_ReapsBackgroundChildrenAfterExit(t *testing.T) {
	r := NewExecRunner(WithWaitDelay(200 * time.Millisecond))

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "sleep 30 >/dev/null 2>&1 & exit 0"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)

	assert.Eventually(t, func() bool {
		return !groupAlive(res.PID)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRun_NotExecutable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o644))

	r := NewExecRunner()
	_, err := r.Run(context.Background(), Command{Name: script})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "non-executable file is not a usable tool: %v", err)
}
