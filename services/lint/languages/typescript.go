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

// TypeScript checks with tsc. Inside a project with tsconfig.json the
// whole project is type-checked and only this file's diagnostics kept,
// so path aliases and lib settings apply.
func TypeScript() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "typescript",
		Name:         "TypeScript",
		Tool:         "tsc",
		Extensions:   []string{".ts", ".tsx", ".mts", ".cts"},
		LocalPaths:   []string{"node_modules/.bin/tsc"},
		Timeout:      60 * time.Second,
		DetectConfig: detectAny("tsconfig.json"),
		BuildArgs:    tscArgs,
		ParseOutput:  parseTSC,
	}
}

func tscArgs(inv registry.Invocation) []string {
	if inv.HasProjectConfig {
		return []string{"--noEmit", "--pretty", "false", "-p", inv.ProjectRoot}
	}
	args := []string{"--noEmit", "--pretty", "false", "--skipLibCheck"}
	if strings.HasSuffix(strings.ToLower(inv.File), ".tsx") {
		args = append(args, "--jsx", "preserve")
	}
	return append(args, inv.File)
}

var (
	// tscLine matches "file(line,col): error TS2322: message".
	tscLine = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\): (error|warning|message|suggestion) (TS\d+): (.*)$`)

	// tscGlobal matches location-less diagnostics such as config errors.
	tscGlobal = regexp.MustCompile(`^(error|warning|message) (TS\d+): (.*)$`)
)

// parseTSC parses `tsc --pretty false` output. Indented continuation
// lines belong to the preceding diagnostic's message.
func parseTSC(stdout, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	keep := false

	for _, line := range lines(stdout + "\n" + stderr) {
		if line == "" {
			continue
		}
		if m := tscLine.FindStringSubmatch(line); m != nil {
			keep = sameFile(m[1], file, root)
			if keep {
				out = append(out, diag.New(atoi(m[2]), atoi(m[3]), diag.ParseSeverity(m[4]), m[6],
					diag.WithCode(m[5]), diag.WithFile(file)))
			}
			continue
		}
		if m := tscGlobal.FindStringSubmatch(line); m != nil {
			keep = true
			out = append(out, diag.New(1, 1, diag.ParseSeverity(m[1]), m[3], diag.WithCode(m[2])))
			continue
		}
		if keep && len(out) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			out[len(out)-1].Message += "\n" + strings.TrimRight(line, " \t")
		}
	}
	return out
}
