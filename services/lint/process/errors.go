// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package process

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the process package.
var (
	// ErrNotFound indicates the executable does not exist or is not on PATH.
	ErrNotFound = errors.New("tool not found")

	// ErrTimeout indicates the tool exceeded its deadline and was killed.
	ErrTimeout = errors.New("tool timeout")

	// ErrCanceled indicates the caller's context ended before the tool did.
	ErrCanceled = errors.New("tool canceled")

	// ErrStart indicates the tool exists but could not be started.
	ErrStart = errors.New("tool failed to start")

	// ErrInvalidInput indicates a malformed Command.
	ErrInvalidInput = errors.New("invalid input")
)

// ToolError wraps a process failure with the tool it concerns.
//
// Thread Safety: Immutable after creation.
type ToolError struct {
	// Tool is the executable name (e.g. "tsc").
	Tool string

	// Err is one of the package sentinels.
	Err error

	// Cause is the underlying OS or exec error, if any.
	Cause error

	// Stderr holds whatever the tool wrote to stderr before failing.
	Stderr string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Tool)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *ToolError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// NewToolError creates a ToolError for the given sentinel.
func NewToolError(tool string, err error) *ToolError {
	return &ToolError{Tool: tool, Err: err}
}

// WithCause returns a copy of the error carrying the underlying cause.
func (e *ToolError) WithCause(cause error) *ToolError {
	return &ToolError{Tool: e.Tool, Err: e.Err, Cause: cause, Stderr: e.Stderr}
}

// WithStderr returns a copy of the error carrying trimmed stderr output.
func (e *ToolError) WithStderr(stderr string) *ToolError {
	return &ToolError{Tool: e.Tool, Err: e.Err, Cause: e.Cause, Stderr: strings.TrimSpace(stderr)}
}
