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

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Lua parses with `luac -p`, which stops at the first syntax error.
func Lua() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "lua",
		Name:         "Lua",
		Tool:         "luac",
		Extensions:   []string{".lua"},
		DetectConfig: detectAny(".luarc.json", ".luacheckrc"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"-p", inv.File}
		},
		ParseOutput: parseLuac,
	}
}

// luacLine matches "luac: file.lua:3: 'end' expected near <eof>". Versioned
// binaries print their own name (luac5.4).
var luacLine = regexp.MustCompile(`^(?:luac[\w.]*: )?(.+?):(\d+): (.*)$`)

func parseLuac(_, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range lines(stderr) {
		m := luacLine.FindStringSubmatch(line)
		if m == nil || !sameFile(m[1], file, root) {
			continue
		}
		out = append(out, diag.New(atoi(m[2]), 1, diag.SeverityError, m[3], diag.WithFile(file)))
	}
	return out
}
