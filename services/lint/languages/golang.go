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
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/modfile"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Go checks with `go vet`. Inside a module the file's package is vetted
// so sibling files resolve; outside, the file is vetted alone.
func Go() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "go",
		Name:         "Go",
		Tool:         "go",
		Extensions:   []string{".go"},
		Timeout:      60 * time.Second,
		DetectConfig: hasGoModule,
		BuildArgs:    goVetArgs,
		ParseOutput:  parseGoVet,
	}
}

// hasGoModule reports whether root holds a parseable go.mod with a
// module directive.
func hasGoModule(root string) bool {
	_, ok := goModulePath(root)
	return ok
}

// goModulePath returns the module path declared in root/go.mod.
func goModulePath(root string) (string, bool) {
	name := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false
	}
	f, err := modfile.ParseLax(name, data, nil)
	if err != nil || f.Module == nil {
		return "", false
	}
	return f.Module.Mod.Path, true
}

func goVetArgs(inv registry.Invocation) []string {
	if !inv.HasProjectConfig {
		return []string{"vet", inv.File}
	}
	rel, err := filepath.Rel(inv.ProjectRoot, filepath.Dir(inv.File))
	if err != nil || strings.HasPrefix(rel, "..") {
		return []string{"vet", inv.File}
	}
	return []string{"vet", "./" + filepath.ToSlash(rel)}
}

// goVetLine matches compiler and analyzer findings, with or without the
// "vet: " prefix used for type errors.
var goVetLine = regexp.MustCompile(`^(?:vet: )?(.+?\.go):(\d+)(?::(\d+))?: (.*)$`)

// parseGoVet parses `go vet` stderr. Package headers ("# pkg") and
// other non-location lines are skipped.
func parseGoVet(stdout, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range lines(stderr + "\n" + stdout) {
		m := goVetLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || !sameFile(m[1], file, root) {
			continue
		}
		out = append(out, diag.New(atoi(m[2]), atoi(m[3]), diag.SeverityError, m[4], diag.WithFile(file)))
	}
	return out
}
