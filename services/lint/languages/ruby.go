// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package languages

import (
	"regexp"
	"strings"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Ruby checks syntax with warnings enabled (`ruby -wc`).
func Ruby() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "ruby",
		Name:         "Ruby",
		Tool:         "ruby",
		Extensions:   []string{".rb"},
		LocalPaths:   []string{"bin/ruby"},
		DetectConfig: detectAny("Gemfile"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"-wc", inv.File}
		},
		ParseOutput: parseRuby,
	}
}

// rubyLine matches "file.rb:3: warning: message" and "file.rb:3: message".
var rubyLine = regexp.MustCompile(`^(.+?):(\d+): (?:(warning): )?(.*)$`)

// parseRuby parses `ruby -wc` stderr. Lines without a warning prefix are
// syntax errors. The "Syntax OK" banner and source excerpts are skipped.
func parseRuby(_, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range lines(stderr) {
		m := rubyLine.FindStringSubmatch(line)
		if m == nil || !sameFile(m[1], file, root) {
			continue
		}
		sev := diag.SeverityError
		if m[3] != "" {
			sev = diag.SeverityWarning
		}
		msg := strings.TrimSuffix(strings.TrimSpace(m[4]), " (SyntaxError)")
		out = append(out, diag.New(atoi(m[2]), 1, sev, msg, diag.WithFile(file)))
	}
	return out
}
