// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AleutianAI/langcheck/services/lint/report"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = report.ExitClean    // Clean, degraded, or informational only
	CLIExitError    = 1                   // Usage or internal error
	CLIExitFindings = report.ExitFindings // At least one error or warning
)

// ErrUsage marks errors caused by how the command was invoked.
var ErrUsage = errors.New("usage error")

// ExitError carries a process exit code through cobra's error return.
//
// # Example
//
//	return &ExitError{Code: CLIExitFindings}
//
//	var exitErr *ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
type ExitError struct {
	// Code is the process exit status.
	Code int

	// Err is printed to stderr when non-nil.
	Err error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageErrorf formats an ErrUsage-wrapped error.
func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// exitCodeFor maps a command error to a process exit code.
//
// nil is success; *ExitError carries its own code; anything else
// (cobra argument errors included) is CLIExitError.
func exitCodeFor(err error) int {
	if err == nil {
		return CLIExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return CLIExitError
}

// reportError prints err unless it is a silent *ExitError.
func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, ErrUsage) {
		fmt.Fprintln(w, "Run 'langcheck help' for usage.")
	}
}

// outputJSON writes v indented.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
