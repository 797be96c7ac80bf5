// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(id string, exts ...string) *LanguageConfig {
	return &LanguageConfig{ID: id, Name: id, Tool: id + "c", Extensions: exts}
}

func TestResolve_MatchesRegisteredExtension(t *testing.T) {
	ts := testConfig("typescript", ".ts", ".tsx")
	py := testConfig("python", ".py")
	r := New(ts, py)

	tests := []struct {
		path string
		want string
	}{
		{"src/app.ts", "typescript"},
		{"/abs/path/View.TSX", "typescript"},
		{"script.py", "python"},
		{"a.b.c.py", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg, ok := r.Resolve(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, cfg.ID)
		})
	}
}

func TestResolve_LongestSuffixWins(t *testing.T) {
	r := New(
		testConfig("typescript", ".ts"),
		testConfig("declarations", ".d.ts"),
	)

	cfg, ok := r.Resolve("lib/types.d.ts")
	require.True(t, ok)
	assert.Equal(t, "declarations", cfg.ID)

	cfg, ok = r.Resolve("lib/types.ts")
	require.True(t, ok)
	assert.Equal(t, "typescript", cfg.ID)
}

func TestResolve_Unsupported(t *testing.T) {
	r := New(testConfig("go", ".go"))

	for _, path := range []string{"README", "notes.txt", ".go", "dir.go/file"} {
		_, ok := r.Resolve(path)
		assert.False(t, ok, "path %q should not resolve", path)
	}
}

func TestRegister_NormalizesExtensions(t *testing.T) {
	r := New(testConfig("lua", "LUA", " .Luau "))

	_, ok := r.Resolve("init.lua")
	assert.True(t, ok)
	_, ok = r.Resolve("init.luau")
	assert.True(t, ok)
}

func TestRegister_ConflictLaterWins(t *testing.T) {
	c := testConfig("c", ".c", ".h")
	cpp := testConfig("cpp", ".cpp", ".h")
	r := New(c, cpp)

	cfg, ok := r.Resolve("header.h")
	require.True(t, ok)
	assert.Equal(t, "cpp", cfg.ID)

	conflicts := r.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, Conflict{Extension: ".h", Previous: "c", Current: "cpp"}, conflicts[0])
}

func TestRegister_SameIDReplaces(t *testing.T) {
	r := New(testConfig("go", ".go"))
	replacement := testConfig("go", ".go")
	replacement.Tool = "gopls"
	r.Register(replacement)

	assert.Len(t, r.Configs(), 1)
	assert.Empty(t, r.Conflicts())

	cfg, ok := r.Lookup("GO")
	require.True(t, ok)
	assert.Equal(t, "gopls", cfg.Tool)
}

func TestConfigs_RegistrationOrder(t *testing.T) {
	r := New(testConfig("b", ".b"), testConfig("a", ".a"), testConfig("c", ".c"))

	var ids []string
	for _, cfg := range r.Configs() {
		ids = append(ids, cfg.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestHasProjectConfig_NilDetector(t *testing.T) {
	cfg := testConfig("x", ".x")
	assert.False(t, cfg.HasProjectConfig(t.TempDir()))

	cfg.DetectConfig = func(string) bool { return true }
	assert.True(t, cfg.HasProjectConfig(t.TempDir()))
	assert.False(t, cfg.HasProjectConfig(""))
}
