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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

// Output formats for check.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type checkOptions struct {
	format      string
	timeout     time.Duration
	projectRoot string
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check one file with its language's tool",
		Example: `  langcheck check src/app.ts
  langcheck check main.go --format json
  langcheck check lib.rs --project-root . --timeout 90s`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatText, "Output format: text or json")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Cap on the tool's run time (default: the language's own, else 30s)")
	cmd.Flags().StringVar(&opts.projectRoot, "project-root", "", "Directory the tool runs from (default: current directory)")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, file string, opts *checkOptions) error {
	if opts.format != FormatText && opts.format != FormatJSON {
		return usageErrorf("unknown format %q (want text or json)", opts.format)
	}

	info, err := os.Stat(file)
	if err != nil {
		return usageErrorf("cannot check %s: %v", file, err)
	}
	if info.IsDir() {
		return usageErrorf("%s is a directory", file)
	}

	root, err := resolveRoot(opts.projectRoot)
	if err != nil {
		return err
	}

	eng := a.newEngine(engineTimeout(opts.timeout)...)
	res := eng.Check(cmd.Context(), file, root, a.settings())

	var code int
	switch opts.format {
	case FormatJSON:
		code, err = report.WriteJSON(a.stdout, res)
	default:
		code, err = report.NewPlain(ux.ThemeFor(a.stdout)).Write(a.stdout, res)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if code != CLIExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}

// engineTimeout turns a --timeout flag into engine options. An unset flag
// adds none.
func engineTimeout(flag time.Duration) []engine.Option {
	d := checkTimeoutFor(flag)
	if d == 0 {
		return nil
	}
	return []engine.Option{engine.WithTimeout(d)}
}

// exactArgs is cobra.ExactArgs with usage-error wrapping.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs with usage-error wrapping.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usageErrorf("%s accepts at most %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}
