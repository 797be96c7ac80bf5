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
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Rust checks a standalone file with rustc, or the whole crate with
// `cargo check` when the root is a Cargo package.
func Rust() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "rust",
		Name:         "Rust",
		Tool:         "rustc",
		ProjectTool:  "cargo",
		Extensions:   []string{".rs"},
		Timeout:      120 * time.Second,
		DetectConfig: isCargoPackage,
		BuildArgs:    rustArgs,
		ParseOutput:  parseRust,
	}
}

// isCargoPackage reports whether root/Cargo.toml declares a [package].
// Workspace-only manifests do not count.
func isCargoPackage(root string) bool {
	var manifest struct {
		Package *struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(filepath.Join(root, "Cargo.toml"), &manifest); err != nil {
		return false
	}
	return manifest.Package != nil
}

// rustMainFn matches a top-level `fn main(` declaration.
var rustMainFn = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?fn\s+main\s*\(`)

func rustArgs(inv registry.Invocation) []string {
	if inv.HasProjectConfig {
		return []string{"check", "--message-format=json", "--quiet", "--target-dir", inv.ScratchDir}
	}
	return []string{
		"--error-format=json",
		"--edition=2021",
		"--crate-type=" + rustCrateType(inv.File),
		"--emit=metadata",
		"--out-dir", inv.ScratchDir,
		inv.File,
	}
}

// rustCrateType compiles main.rs and files declaring main as binaries so
// that main is not reported as dead code.
func rustCrateType(file string) string {
	if filepath.Base(file) == "main.rs" {
		return "bin"
	}
	src, err := os.ReadFile(file)
	if err == nil && rustMainFn.Match(src) {
		return "bin"
	}
	return "lib"
}

// rustMessage is a rustc JSON diagnostic.
type rustMessage struct {
	Message string     `json:"message"`
	Level   string     `json:"level"`
	Code    *rustCode  `json:"code"`
	Spans   []rustSpan `json:"spans"`
}

type rustCode struct {
	Code string `json:"code"`
}

type rustSpan struct {
	FileName    string `json:"file_name"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
	IsPrimary   bool   `json:"is_primary"`
}

// cargoMessage wraps a rustc diagnostic in `cargo --message-format=json`.
type cargoMessage struct {
	Reason  string       `json:"reason"`
	Message *rustMessage `json:"message"`
}

// parseRust parses JSON lines from rustc (stderr) or cargo (stdout).
// Messages without a primary span in this file, such as "aborting due to
// previous error", are dropped.
func parseRust(stdout, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range lines(stdout + "\n" + stderr) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var msg *rustMessage
		if strings.Contains(line, `"reason"`) {
			var cm cargoMessage
			if err := json.Unmarshal([]byte(line), &cm); err != nil || cm.Reason != "compiler-message" {
				continue
			}
			msg = cm.Message
		} else {
			var rm rustMessage
			if err := json.Unmarshal([]byte(line), &rm); err != nil {
				continue
			}
			msg = &rm
		}
		if msg == nil {
			continue
		}

		for _, span := range msg.Spans {
			if !span.IsPrimary || !sameFile(span.FileName, file, root) {
				continue
			}
			var opts []diag.Option
			if msg.Code != nil && msg.Code.Code != "" {
				opts = append(opts, diag.WithCode(msg.Code.Code))
			}
			opts = append(opts, diag.WithFile(file))
			out = append(out, diag.New(span.LineStart, span.ColumnStart, rustSeverity(msg.Level), msg.Message, opts...))
			break
		}
	}
	return out
}

// rustSeverity maps rustc levels. "error: internal compiler error" is an
// error; "failure-note" is informational.
func rustSeverity(level string) diag.Severity {
	switch {
	case strings.HasPrefix(level, "error"):
		return diag.SeverityError
	case level == "failure-note":
		return diag.SeverityInfo
	default:
		return diag.ParseSeverity(level)
	}
}
