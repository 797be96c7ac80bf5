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
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/report"
	"github.com/AleutianAI/langcheck/services/lint/telemetry"
	"github.com/AleutianAI/langcheck/services/lint/watch"
)

type watchOptions struct {
	listen   string
	debounce time.Duration
	interval time.Duration
	timeout  time.Duration
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recheck files as they change",
		Long: `watch rechecks supported files under dir (default: current directory)
whenever they are written, printing each result. Hidden directories,
vendor and node_modules are skipped.

Unless --listen is empty, a status server exposes /healthz, /v1/results,
/metrics and a websocket stream of results at /events.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runWatch(cmd.Context(), dir, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", watch.DefaultListen, "Status server address; empty disables it")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is rechecked")
	cmd.Flags().DurationVar(&opts.interval, "min-interval", watch.DefaultRecheckInterval, "Minimum time between checks of one file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Cap on each tool's run time (default: the language's own, else 30s)")
	return cmd
}

func (a *app) runWatch(ctx context.Context, dir string, opts *watchOptions) error {
	root, err := resolveRoot(dir)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := watch.NewHub(a.logger)
	defer hub.Close()

	svc := watch.NewService(a.newEngine(engineTimeout(opts.timeout)...), watch.ServiceOptions{
		Root:            root,
		Settings:        a.settings,
		Output:          a.stdout,
		Renderer:        report.NewPlain(ux.ThemeFor(a.stdout)),
		RecheckInterval: opts.interval,
		Publisher:       hub,
		Logger:          a.logger,
	})

	w, err := watch.NewWatcher(root, opts.debounce, svc.HandleChanges, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	theme := ux.ThemeFor(a.stdout)
	fmt.Fprintf(a.stdout, "%s Watching %s (Ctrl+C to stop)\n", theme.Icon(ux.IconArrow), root)

	serverErr := make(chan error, 1)
	if opts.listen != "" {
		gin.SetMode(gin.ReleaseMode)
		router := watch.NewRouter(svc, hub, telemetry.MetricsHandler())
		go func() { serverErr <- watch.Serve(ctx, opts.listen, router, a.logger) }()
		fmt.Fprintf(a.stdout, "%s Status server on %s\n", theme.Icon(ux.IconArrow), opts.listen)
	} else {
		close(serverErr)
	}

	serverDone := false
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		serverDone = true
		if ok && err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		<-ctx.Done()
	}

	w.Stop()
	cancel()
	svc.Close()
	hub.Close()
	if !serverDone {
		if err := <-serverErr; err != nil {
			return fmt.Errorf("status server: %w", err)
		}
	}
	fmt.Fprintln(a.stdout, theme.Render(ux.Styles.Muted, "Stopped watching"))
	return nil
}
