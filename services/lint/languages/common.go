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
	"strconv"
	"strings"

	"github.com/AleutianAI/langcheck/services/lint/diag"
)

// =============================================================================
// SHARED HELPERS
// =============================================================================

// fileExists reports whether any of names exists under root.
func fileExists(root string, names ...string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}

// detectAny builds a DetectFunc matching any of the marker files.
func detectAny(names ...string) func(root string) bool {
	return func(root string) bool {
		return fileExists(root, names...)
	}
}

// sameFile reports whether a path printed by a tool refers to file.
// Relative paths are taken relative to root. An empty reported path is
// treated as a match: it is a global diagnostic for this invocation.
func sameFile(reported, file, root string) bool {
	reported = strings.TrimSpace(reported)
	if reported == "" {
		return true
	}
	reported = strings.TrimPrefix(reported, "file://")
	if !filepath.IsAbs(reported) {
		reported = filepath.Join(root, reported)
	}
	if filepath.Clean(reported) == filepath.Clean(file) {
		return true
	}
	// Tools run through symlinked temp dirs (macOS /var → /private/var)
	// print the resolved path.
	a, errA := filepath.EvalSymlinks(reported)
	b, errB := filepath.EvalSymlinks(file)
	return errA == nil && errB == nil && a == b
}

// lines splits output into lines without trailing carriage returns.
func lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// atoi parses a decimal, returning 0 on failure.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// caretColumn returns the 1-indexed column of the first '^' in line, or 0.
func caretColumn(line string) int {
	idx := strings.IndexByte(line, '^')
	if idx < 0 || strings.TrimSpace(line) == "" || strings.Trim(strings.TrimSpace(line), "^~") != "" {
		return 0
	}
	return idx + 1
}

// =============================================================================
// GCC-STYLE PARSER
// =============================================================================

// gccLine matches "file:line[:col]: severity: message", the format shared
// by gcc, clang, swiftc and kotlinc.
var gccLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(fatal error|error|warning|note|remark|info):\s*(.*)$`)

// gccFlag pulls a trailing "[-Wflag]" or "[-Werror=flag]" into Code.
var gccFlag = regexp.MustCompile(`\s*\[(-W[^\]]+)\]$`)

// parseGCCStyle parses compiler output in gcc format from both streams.
// Notes that only elaborate on a preceding diagnostic are kept as info.
func parseGCCStyle(stdout, stderr, file, root string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, stream := range []string{stderr, stdout} {
		for _, line := range lines(stream) {
			m := gccLine.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil || !sameFile(m[1], file, root) {
				continue
			}
			msg := m[5]
			var opts []diag.Option
			if fm := gccFlag.FindStringSubmatch(msg); fm != nil {
				opts = append(opts, diag.WithCode(fm[1]))
				msg = strings.TrimSpace(msg[:len(msg)-len(fm[0])])
			}
			opts = append(opts, diag.WithFile(file))
			out = append(out, diag.New(atoi(m[2]), atoi(m[3]), diag.ParseSeverity(m[4]), msg, opts...))
		}
	}
	return out
}
