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
	"time"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Java compiles with javac into the scratch directory.
func Java() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "java",
		Name:         "Java",
		Tool:         "javac",
		Extensions:   []string{".java"},
		Timeout:      60 * time.Second,
		DetectConfig: detectAny("pom.xml", "build.gradle", "build.gradle.kts"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"-Xlint:all", "-Xmaxerrs", "200", "-d", inv.ScratchDir, inv.File}
		},
		ParseOutput: parseJavac,
	}
}

var (
	// javacLine matches "File.java:12: error: message".
	javacLine = regexp.MustCompile(`^(.+?\.java):(\d+): (error|warning): (.*)$`)

	// javacLint pulls a leading "[rawtypes]" lint category into Code.
	javacLint = regexp.MustCompile(`^\[([\w-]+)\]\s*(.*)$`)
)

// parseJavac parses javac output. Each header is followed by the source
// line and a caret line that gives the column.
func parseJavac(stdout, stderr, file, root string) []diag.Diagnostic {
	ls := lines(stderr + "\n" + stdout)
	var out []diag.Diagnostic

	for i, line := range ls {
		m := javacLine.FindStringSubmatch(line)
		if m == nil || !sameFile(m[1], file, root) {
			continue
		}
		msg := m[4]
		var opts []diag.Option
		if lm := javacLint.FindStringSubmatch(msg); lm != nil {
			opts = append(opts, diag.WithCode(lm[1]))
			msg = lm[2]
		}
		col := 0
		for j := i + 1; j < len(ls) && j <= i+4; j++ {
			if javacLine.MatchString(ls[j]) {
				break
			}
			if c := caretColumn(ls[j]); c > 0 {
				col = c
				break
			}
		}
		opts = append(opts, diag.WithFile(file))
		out = append(out, diag.New(atoi(m[2]), col, diag.ParseSeverity(m[3]), strings.TrimSpace(msg), opts...))
	}
	return out
}
