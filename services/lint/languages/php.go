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

// PHP lints with `php -l`.
func PHP() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "php",
		Name:         "PHP",
		Tool:         "php",
		Extensions:   []string{".php"},
		LocalPaths:   []string{"vendor/bin/php"},
		DetectConfig: detectAny("composer.json"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"-l", "-d", "display_errors=stderr", "-d", "log_errors=0", inv.File}
		},
		ParseOutput: parsePHPLint,
	}
}

// phpLine matches "PHP Parse error:  syntax error, ... in /x.php on line 3".
var phpLine = regexp.MustCompile(`(?:PHP )?(Parse error|Fatal error|Warning|Deprecated|Notice):\s+(.*) in (.+?) on line (\d+)`)

// parsePHPLint parses php -l output. PHP may print each error to both
// streams depending on ini settings, so duplicates are dropped.
func parsePHPLint(stdout, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	seen := make(map[string]bool)

	for _, line := range lines(stderr + "\n" + stdout) {
		m := phpLine.FindStringSubmatch(line)
		if m == nil || !sameFile(m[3], file, root) {
			continue
		}
		key := m[4] + "\x00" + m[2]
		if seen[key] {
			continue
		}
		seen[key] = true

		sev := diag.SeverityError
		switch m[1] {
		case "Warning", "Deprecated":
			sev = diag.SeverityWarning
		case "Notice":
			sev = diag.SeverityInfo
		}
		out = append(out, diag.New(atoi(m[4]), 1, sev, strings.TrimSpace(m[2]), diag.WithFile(file)))
	}
	return out
}
