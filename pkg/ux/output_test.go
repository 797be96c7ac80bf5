// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"strings"
	"testing"
)

// =============================================================================
// Theme Tests
// =============================================================================

func TestTheme_PlainRenderIsIdentity(t *testing.T) {
	theme := NewTheme(false)

	if got := theme.Render(Styles.Error, "boom"); got != "boom" {
		t.Errorf("Render() = %q, want %q", got, "boom")
	}
	if theme.Color() {
		t.Error("Color() = true for a plain theme")
	}
}

func TestTheme_IconPlain(t *testing.T) {
	theme := NewTheme(false)

	tests := []struct {
		icon Icon
		want string
	}{
		{IconSuccess, "✓"},
		{IconWarning, "⚠"},
		{IconError, "✗"},
		{IconPending, "○"},
		{IconArrow, "→"},
	}

	for _, tt := range tests {
		if got := theme.Icon(tt.icon); got != tt.want {
			t.Errorf("Icon(%q) = %q, want %q", tt.icon, got, tt.want)
		}
	}
}

func TestTheme_IconColoredContainsGlyph(t *testing.T) {
	theme := NewTheme(true)
	if got := theme.Icon(IconError); !strings.Contains(got, "✗") {
		t.Errorf("colored Icon() = %q, missing glyph", got)
	}
}

func TestTheme_TablePlain(t *testing.T) {
	out := NewTheme(false).Table(
		[]string{"LANGUAGE", "TOOL"},
		[][]string{{"typescript", "tsc"}, {"go", "go"}},
	)

	for _, want := range []string{"LANGUAGE", "TOOL", "typescript", "tsc"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "╭") {
		t.Errorf("plain table should not draw a rounded border:\n%s", out)
	}
}

// =============================================================================
// Terminal Tests
// =============================================================================

func TestColorEnabled_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("a bytes.Buffer is not a terminal")
	}
	if ThemeFor(&buf).Color() {
		t.Error("ThemeFor(buffer) should be plain")
	}
}

func TestColorEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(&bytes.Buffer{}) {
		t.Error("NO_COLOR must disable color")
	}
}

func TestIsTerminal_NoFd(t *testing.T) {
	if IsTerminal(struct{}{}) {
		t.Error("a value without Fd() is not a terminal")
	}
}
