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
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/cmd/langcheck/config"
	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

func newToggleCmd(a *app, disable bool) *cobra.Command {
	verb := "enable"
	if disable {
		verb = "disable"
	}
	var all bool

	cmd := &cobra.Command{
		Use:   verb + " [language]",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " checks for a language, or all of them",
		Long: fmt.Sprintf(`%s checks for one language by ID or name, or for every language
with --all. Without arguments on a terminal, a picker is shown.

The setting is saved to $%s (default ~/.langcheck/config.yaml).`,
			strings.ToUpper(verb[:1])+verb[1:], config.EnvConfigPath),
		Example: fmt.Sprintf("  langcheck %s typescript\n  langcheck %s --all", verb, verb),
		Args:    maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runToggle(disable, all, args)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Apply to every language")
	return cmd
}

func (a *app) runToggle(disable, all bool, args []string) error {
	if all && len(args) > 0 {
		return usageErrorf("give a language or --all, not both")
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	flags, err := config.Load(path)
	if err != nil {
		return err
	}

	theme := ux.ThemeFor(a.stdout)
	state := "enabled"
	if disable {
		state = "disabled"
	}

	var changed []string
	switch {
	case all:
		flags.Disable = disable
		if !disable {
			flags.Languages = nil
		}
		changed = []string{"All"}

	case len(args) == 1:
		cfg, ok := lookupLanguage(a.registry, args[0])
		if !ok {
			return usageErrorf("unknown language %q (known: %s)", args[0], strings.Join(languageIDs(a.registry), ", "))
		}
		flags.SetLanguage(cfg.ID, disable)
		changed = []string{cfg.Name}

	default:
		if !a.interactive() {
			return usageErrorf("specify a language or --all")
		}
		verb := "enable"
		if disable {
			verb = "disable"
		}
		options := pickerOptions(a.registry, flags, disable)
		if len(options) == 0 {
			fmt.Fprintf(a.stdout, "Every language is already %s\n", state)
			return nil
		}
		ids, err := a.pick("Select languages to "+verb, options)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(a.stdout, theme.Render(ux.Styles.Muted, "Nothing selected"))
			return nil
		}
		for _, id := range ids {
			cfg, ok := a.registry.Lookup(id)
			if !ok {
				continue
			}
			flags.SetLanguage(cfg.ID, disable)
			changed = append(changed, cfg.Name)
		}
	}

	if err := config.Save(path, flags); err != nil {
		return err
	}
	a.logger.Info("settings saved", "path", path, "state", state, "languages", changed)

	for _, name := range changed {
		fmt.Fprintf(a.stdout, "%s %s checks %s\n", theme.Icon(ux.IconSuccess), name, state)
	}
	if !disable && !all && flags.Disable {
		fmt.Fprintf(a.stdout, "%s all checks are still disabled; run 'langcheck enable --all'\n",
			theme.Icon(ux.IconWarning))
	}
	return nil
}

// lookupLanguage matches an ID or display name, case-insensitively.
func lookupLanguage(reg *registry.Registry, name string) (*registry.LanguageConfig, bool) {
	if cfg, ok := reg.Lookup(strings.ToLower(name)); ok {
		return cfg, true
	}
	for _, cfg := range reg.Configs() {
		if strings.EqualFold(cfg.Name, name) {
			return cfg, true
		}
	}
	return nil, false
}

func languageIDs(reg *registry.Registry) []string {
	configs := reg.Configs()
	ids := make([]string, 0, len(configs))
	for _, cfg := range configs {
		ids = append(ids, cfg.ID)
	}
	return ids
}

// pickerOptions lists languages not already in the target state.
func pickerOptions(reg *registry.Registry, flags *config.Flags, disable bool) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, cfg := range reg.Configs() {
		if flags.Languages[cfg.ID] == disable {
			continue
		}
		label := fmt.Sprintf("%s (%s)", cfg.Name, strings.Join(cfg.Extensions, " "))
		opts = append(opts, huh.NewOption(label, cfg.ID))
	}
	return opts
}
