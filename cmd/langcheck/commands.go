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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/cmd/langcheck/config"
	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/languages"
	"github.com/AleutianAI/langcheck/services/lint/registry"
	"github.com/AleutianAI/langcheck/services/lint/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	// EnvLogDir enables the JSON file log when --log-dir is not given.
	EnvLogDir = "LANGCHECK_LOG_DIR"

	// EnvLogLevel sets the log level (debug, info, warn, error).
	// --verbose takes precedence.
	EnvLogLevel = "LANGCHECK_LOG_LEVEL"
)

// pickFunc shows a multi-select and returns the chosen values.
type pickFunc func(title string, options []huh.Option[string]) ([]string, error)

// app holds per-invocation state shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	verbose bool
	logDir  string

	runID  string
	base   *logging.Logger
	logger *logging.Logger

	registry    *registry.Registry
	engineOpts  []engine.Option
	interactive func() bool
	pick        pickFunc

	closers []func(context.Context) error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		registry: languages.Default(),
		logger:   logging.Discard(),
		pick:     huhPick,
	}
	a.interactive = func() bool {
		return ux.IsTerminal(a.stdin) && ux.IsTerminal(a.stdout)
	}
	return a
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "langcheck",
		Short: "Run each language's own checker against a file",
		Long: `langcheck maps a file to its language by extension, runs that language's
compiler or linter (project-local first, then PATH), and reports the
diagnostics in one format.

Exit status is 2 when an error or warning was found, 1 on usage errors,
and 0 otherwise. A missing tool is reported but never fails the run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().StringVar(&a.logDir, "log-dir", "", "Write JSON logs to this directory (env: "+EnvLogDir+")")

	root.AddCommand(
		newCheckCmd(a),
		newHookCmd(a),
		newToggleCmd(a, false),
		newToggleCmd(a, true),
		newStatusCmd(a),
		newLanguagesCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	root.SetHelpCommand(newHelpCmd(a, root))
	return root
}

// setup creates the logger and telemetry for the invoked command.
func (a *app) setup(cmd *cobra.Command) error {
	a.runID = uuid.NewString()
	hookMode := cmd.Name() == "hook"

	logDir := a.logDir
	if logDir == "" {
		logDir = os.Getenv(EnvLogDir)
	}
	level, badLevel := logLevel(a.verbose, os.Getenv(EnvLogLevel))
	a.base = logging.New(logging.Config{
		Level:   level,
		LogDir:  logDir,
		Service: "langcheck",
		Quiet:   hookMode,
		Output:  a.stderr,
	})
	a.logger = a.base.With("run_id", a.runID, "command", cmd.Name())
	a.closers = append(a.closers, func(context.Context) error { return a.base.Close() })
	if badLevel != "" {
		a.logger.Warn("unknown log level, using warn", "env", EnvLogLevel, "value", badLevel)
	}

	for _, c := range a.registry.Conflicts() {
		a.logger.Warn("extension claimed twice",
			"extension", c.Extension,
			"previous", c.Previous,
			"current", c.Current,
		)
	}

	tcfg := telemetry.DefaultConfig()
	tcfg.ServiceVersion = version
	tcfg.Writer = a.stderr
	if hookMode {
		// stderr belongs to the editor in hook mode.
		if tcfg.TraceExporter == telemetry.ExporterStdout {
			tcfg.TraceExporter = telemetry.ExporterNone
		}
		if tcfg.MetricExporter == telemetry.ExporterStdout {
			tcfg.MetricExporter = telemetry.ExporterNone
		}
	}
	if cmd.Name() == "watch" && tcfg.MetricExporter == telemetry.ExporterNone {
		tcfg.MetricExporter = telemetry.ExporterPrometheus
	}
	shutdown, err := telemetry.Init(cmd.Context(), tcfg)
	if err != nil {
		a.logger.Warn("telemetry disabled", "error", err)
		return nil
	}
	a.closers = append(a.closers, shutdown)
	return nil
}

// logLevel resolves --verbose and $LANGCHECK_LOG_LEVEL. An unrecognized
// value is returned as bad and falls back to warn.
func logLevel(verbose bool, env string) (level logging.Level, bad string) {
	if verbose {
		return logging.LevelDebug, ""
	}
	if strings.TrimSpace(env) == "" {
		return logging.LevelWarn, ""
	}
	level, ok := logging.ParseLevel(env)
	if !ok {
		return level, env
	}
	return level, ""
}

// close releases telemetry and log files in reverse order.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Debug("shutdown error", "error", err)
		}
	}
	a.closers = nil
}

// newEngine builds an engine over the default registry.
func (a *app) newEngine(extra ...engine.Option) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(a.logger)}
	opts = append(opts, a.engineOpts...)
	opts = append(opts, extra...)
	return engine.New(a.registry, opts...)
}

// loadFlags reads the persisted flags. A broken file is logged and
// treated as empty so checks keep running.
func (a *app) loadFlags() (*config.Flags, string) {
	path, err := config.Path()
	if err != nil {
		a.logger.Warn("config path unavailable", "error", err)
		return &config.Flags{}, ""
	}
	flags, err := config.Load(path)
	if err != nil {
		a.logger.Warn("config ignored", "path", path, "error", err)
		return &config.Flags{}, path
	}
	return flags, path
}

// settings loads the flags and converts them for the engine.
func (a *app) settings() engine.Settings {
	flags, _ := a.loadFlags()
	return flags.Settings(a.registry)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "langcheck %s\n", version)
		},
	}
}

// huhPick runs a multi-select form on the terminal.
func huhPick(title string, options []huh.Option[string]) ([]string, error) {
	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}
