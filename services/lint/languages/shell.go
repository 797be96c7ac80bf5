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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Shell lints with shellcheck.
func Shell() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "shell",
		Name:         "Shell",
		Tool:         "shellcheck",
		Extensions:   []string{".sh", ".bash"},
		DetectConfig: detectAny(".shellcheckrc"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"--format=json", "--external-sources", inv.File}
		},
		ParseOutput: parseShellcheck,
	}
}

type shellcheckComment struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Level   string `json:"level"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// parseShellcheck parses `shellcheck --format=json`, a flat array of
// comments. Levels are error, warning, info and style.
func parseShellcheck(stdout, _, file, root string) []diag.Diagnostic {
	start := strings.IndexByte(stdout, '[')
	if start < 0 {
		return nil
	}
	var comments []shellcheckComment
	if err := json.Unmarshal([]byte(stdout[start:]), &comments); err != nil {
		return nil
	}

	out := make([]diag.Diagnostic, 0, len(comments))
	for _, c := range comments {
		if !sameFile(c.File, file, root) {
			continue
		}
		out = append(out, diag.New(c.Line, c.Column, diag.ParseSeverity(c.Level), c.Message,
			diag.WithCode(fmt.Sprintf("SC%d", c.Code)), diag.WithFile(file)))
	}
	return out
}
