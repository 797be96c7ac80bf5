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

// JavaScript checks syntax with `node --check`.
func JavaScript() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "javascript",
		Name:         "JavaScript",
		Tool:         "node",
		Extensions:   []string{".js", ".mjs", ".cjs"},
		DetectConfig: detectAny("package.json"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"--check", inv.File}
		},
		ParseOutput: parseNodeCheck,
	}
}

var (
	// nodeLocation is the "file:line" header of a node error block.
	nodeLocation = regexp.MustCompile(`^(.+?):(\d+)$`)

	// nodeError is the "SyntaxError: message" line.
	nodeError = regexp.MustCompile(`^(\w*Error): (.+)$`)
)

// parseNodeCheck parses the single error block node prints:
//
//	/path/app.js:3
//	  let x = ;
//	          ^
//
//	SyntaxError: Unexpected token ';'
func parseNodeCheck(_, stderr, file, root string) []diag.Diagnostic {
	ls := lines(stderr)
	line, col := 0, 0
	located := false

	for i, l := range ls {
		if !located {
			if m := nodeLocation.FindStringSubmatch(l); m != nil && sameFile(m[1], file, root) {
				line = atoi(m[2])
				located = true
				// Source line, then the caret line.
				if i+2 < len(ls) {
					col = caretColumn(ls[i+2])
				}
			}
			continue
		}
		if m := nodeError.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			return []diag.Diagnostic{
				diag.New(line, col, diag.SeverityError, m[2], diag.WithCode(m[1]), diag.WithFile(file)),
			}
		}
	}
	return nil
}
