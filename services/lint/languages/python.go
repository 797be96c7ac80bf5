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
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Python type-checks with pyright.
func Python() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "python",
		Name:         "Python",
		Tool:         "pyright",
		Extensions:   []string{".py", ".pyi"},
		LocalPaths:   []string{"node_modules/.bin/pyright", ".venv/bin/pyright", "venv/bin/pyright"},
		Timeout:      60 * time.Second,
		DetectConfig: hasPyrightConfig,
		BuildArgs: func(inv registry.Invocation) []string {
			if inv.HasProjectConfig {
				return []string{"--outputjson", "--project", inv.ProjectRoot, inv.File}
			}
			return []string{"--outputjson", inv.File}
		},
		ParseOutput: parsePyright,
	}
}

// hasPyrightConfig reports whether root has pyrightconfig.json or a
// pyproject.toml with a [tool.pyright] table.
func hasPyrightConfig(root string) bool {
	if fileExists(root, "pyrightconfig.json") {
		return true
	}
	var pyproject struct {
		Tool map[string]toml.Primitive `toml:"tool"`
	}
	if _, err := toml.DecodeFile(filepath.Join(root, "pyproject.toml"), &pyproject); err != nil {
		return false
	}
	_, ok := pyproject.Tool["pyright"]
	return ok
}

type pyrightOutput struct {
	GeneralDiagnostics []pyrightDiagnostic `json:"generalDiagnostics"`
}

type pyrightDiagnostic struct {
	File     string       `json:"file"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Rule     string       `json:"rule"`
	Range    pyrightRange `json:"range"`
}

type pyrightRange struct {
	Start pyrightPosition `json:"start"`
}

type pyrightPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// parsePyright parses `pyright --outputjson`. Pyright positions are
// 0-indexed.
func parsePyright(stdout, _, file, root string) []diag.Diagnostic {
	start := strings.IndexByte(stdout, '{')
	if start < 0 {
		return nil
	}
	var output pyrightOutput
	if err := json.Unmarshal([]byte(stdout[start:]), &output); err != nil {
		return nil
	}

	out := make([]diag.Diagnostic, 0, len(output.GeneralDiagnostics))
	for _, d := range output.GeneralDiagnostics {
		if !sameFile(d.File, file, root) {
			continue
		}
		var opts []diag.Option
		if d.Rule != "" {
			opts = append(opts, diag.WithCode(d.Rule))
		}
		opts = append(opts, diag.WithFile(file))
		out = append(out, diag.New(d.Range.Start.Line+1, d.Range.Start.Character+1,
			diag.ParseSeverity(d.Severity), d.Message, opts...))
	}
	return out
}
