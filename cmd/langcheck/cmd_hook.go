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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/langcheck/services/lint/hook"
)

func newHookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hook [event-name]",
		Short: "Handle an editor hook event read from stdin",
		Long: `hook reads one JSON event from stdin. For a PostToolUse event from a
file-editing tool it checks the edited file and, when errors or warnings
are found, writes them to stderr and exits 2. Anything else, including
malformed input, exits 0 silently.`,
		Example: `  echo '{"tool_name":"Edit","tool_input":{"file_path":"a.ts"},"cwd":"/proj"}' | langcheck hook PostToolUse`,
		// Extra arguments are ignored so a misconfigured hook still fails open.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var event string
			if len(args) > 0 {
				event = args[0]
			}

			h := hook.NewHandler(a.newEngine(),
				hook.WithSettings(a.settings),
				hook.WithStderr(a.stderr),
				hook.WithLogger(a.logger),
			)
			if code := h.Handle(cmd.Context(), event, a.stdin); code != CLIExitSuccess {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}
