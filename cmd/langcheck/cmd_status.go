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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/engine"
)

// StatusReport is the --json form of status.
type StatusReport struct {
	ConfigPath  string                `json:"config_path"`
	ProjectRoot string                `json:"project_root"`
	Disabled    bool                  `json:"disabled"`
	Languages   []engine.Availability `json:"languages"`
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		root   string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which checkers are installed and enabled",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context(), root, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&root, "project-root", "", "Root searched for project-local tools (default: current directory)")
	return cmd
}

func (a *app) runStatus(ctx context.Context, root string, asJSON bool) error {
	root, err := resolveRoot(root)
	if err != nil {
		return err
	}
	flags, path := a.loadFlags()
	avail := a.probe(ctx, root, flags.Settings(a.registry))

	if asJSON {
		return outputJSON(a.stdout, StatusReport{
			ConfigPath:  path,
			ProjectRoot: root,
			Disabled:    flags.Disable,
			Languages:   avail,
		})
	}

	theme := ux.ThemeFor(a.stdout)
	fmt.Fprintln(a.stdout, theme.Render(ux.Styles.Title, "langcheck status"))
	if path != "" {
		fmt.Fprintln(a.stdout, theme.Render(ux.Styles.Muted, "config: "+path))
	}
	if flags.Disable {
		fmt.Fprintf(a.stdout, "%s all checks disabled\n", theme.Icon(ux.IconWarning))
	}
	fmt.Fprintln(a.stdout, availabilityTable(theme, avail, true))
	return nil
}

func (a *app) probe(ctx context.Context, root string, settings engine.Settings) []engine.Availability {
	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()
	return a.newEngine().Probe(ctx, root, settings)
}

// availabilityTable renders one row per language.
func availabilityTable(theme ux.Theme, avail []engine.Availability, withState bool) string {
	headers := []string{"Language", "Tool", "Extensions", "Installed"}
	if withState {
		headers = append(headers, "Checks")
	}

	rows := make([][]string, 0, len(avail))
	for _, av := range avail {
		installed := theme.Icon(ux.IconError) + " not installed"
		switch {
		case av.Available && av.Local:
			installed = theme.Icon(ux.IconSuccess) + " project"
		case av.Available:
			installed = theme.Icon(ux.IconSuccess) + " PATH"
		}
		row := []string{av.Name, av.Tool, strings.Join(av.Extensions, " "), installed}
		if withState {
			state := "enabled"
			if av.Disabled {
				state = theme.Render(ux.Styles.Muted, "disabled")
			}
			row = append(row, state)
		}
		rows = append(rows, row)
	}
	return theme.Table(headers, rows)
}

func newHelpCmd(a *app, root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show usage and which checkers are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := root.Find(args)
				if err != nil || target == nil || target == root {
					return usageErrorf("unknown help topic %q", strings.Join(args, " "))
				}
				return target.Help()
			}

			if err := root.Help(); err != nil {
				return err
			}
			dir, err := resolveRoot("")
			if err != nil {
				return err
			}
			theme := ux.ThemeFor(a.stdout)
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, theme.Render(ux.Styles.Header, "Checkers"))
			fmt.Fprintln(a.stdout, availabilityTable(theme, a.probe(cmd.Context(), dir, a.settings()), false))
			return nil
		},
	}
}

func newLanguagesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and their extensions",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			type language struct {
				ID         string   `json:"id"`
				Name       string   `json:"name"`
				Tool       string   `json:"tool"`
				Extensions []string `json:"extensions"`
			}
			var langs []language
			for _, cfg := range a.registry.Configs() {
				langs = append(langs, language{ID: cfg.ID, Name: cfg.Name, Tool: cfg.Tool, Extensions: cfg.Extensions})
			}
			if asJSON {
				return outputJSON(a.stdout, langs)
			}

			rows := make([][]string, 0, len(langs))
			for _, l := range langs {
				rows = append(rows, []string{l.ID, l.Name, l.Tool, strings.Join(l.Extensions, " ")})
			}
			fmt.Fprintln(a.stdout, ux.ThemeFor(a.stdout).Table([]string{"ID", "Name", "Tool", "Extensions"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// resolveRoot defaults to the working directory and rejects non-directories.
func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		return wd, nil
	}
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return "", usageErrorf("project root %s is not a directory", root)
	}
	return root, nil
}
