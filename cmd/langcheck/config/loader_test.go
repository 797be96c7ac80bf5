// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// TestPath_EnvOverride verifies LANGCHECK_CONFIG wins.
func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.yaml")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if got != "/tmp/custom.yaml" {
		t.Errorf("Path() = %q, want /tmp/custom.yaml", got)
	}
}

// TestPath_Default verifies the home-directory fallback.
func TestPath_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", home)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	want := filepath.Join(home, ".langcheck", "config.yaml")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

// TestLoad_MissingFile verifies a missing file means everything enabled.
func TestLoad_MissingFile(t *testing.T) {
	flags, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if flags.Disable || len(flags.Languages) != 0 {
		t.Errorf("Load() = %+v, want empty flags", flags)
	}
}

// TestLoad_EmptyFile verifies an empty file is not an error.
func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("\n"), 0644); err != nil {
		t.Fatal(err)
	}
	flags, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if flags.Disable {
		t.Error("empty file should not disable")
	}
}

// TestLoad_Keys verifies the disable and disable<Id> keys.
func TestLoad_Keys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "disable: false\ndisableTypescript: true\ndisablePython: false\ndisableCPP: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	flags, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if flags.Disable {
		t.Error("Disable = true, want false")
	}
	if !flags.IsDisabled("typescript") {
		t.Error("typescript should be disabled")
	}
	if flags.IsDisabled("python") {
		t.Error("python should be enabled")
	}
	if !flags.IsDisabled("cpp") {
		t.Error("cpp should be disabled (case-insensitive key)")
	}
}

// TestLoad_Malformed verifies parse errors are reported.
func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"non-bool global", "disable: sometimes\n"},
		{"non-bool language", "disableGo: [1]\n"},
		{"invalid yaml", "disable: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want parse error")
			}
		})
	}
}

// TestSave_RoundTrip verifies Save then Load preserves state.
func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "config.yaml")

	flags := &Flags{}
	flags.SetLanguage("Rust", true)
	flags.SetLanguage("go", true)
	flags.SetLanguage("go", false)

	if err := Save(path, flags); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "disableRust: true") {
		t.Errorf("written config missing disableRust:\n%s", data)
	}
	if strings.Contains(string(data), "disableGo") {
		t.Errorf("enabled language should not be written:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.IsDisabled("rust") || loaded.IsDisabled("go") {
		t.Errorf("round trip lost state: %+v", loaded)
	}
}

// TestSave_PreservesUnknownKeys verifies hand-added keys survive.
func TestSave_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: dark\ndisable: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flags, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	flags.Disable = true
	if err := Save(path, flags); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "theme: dark") {
		t.Errorf("unknown key dropped:\n%s", data)
	}
	if !strings.Contains(string(data), "disable: true") {
		t.Errorf("disable not written:\n%s", data)
	}
}

// TestFlags_Settings verifies conversion to engine settings.
func TestFlags_Settings(t *testing.T) {
	reg := registry.New(
		&registry.LanguageConfig{ID: "typescript", Extensions: []string{".ts"}},
		&registry.LanguageConfig{ID: "go", Extensions: []string{".go"}},
	)

	flags := &Flags{}
	flags.SetLanguage("typescript", true)
	flags.SetLanguage("cobol", true)

	s := flags.Settings(reg)
	if !s.IsDisabled("typescript") {
		t.Error("typescript should be disabled")
	}
	if s.IsDisabled("go") {
		t.Error("go should be enabled")
	}
	if s.DisabledLanguages["cobol"] {
		t.Error("unknown language should not be carried over")
	}

	flags.Disable = true
	if !flags.Settings(reg).IsDisabled("go") {
		t.Error("global disable should apply to every language")
	}

	var nilFlags *Flags
	if nilFlags.Settings(reg).IsDisabled("go") {
		t.Error("nil flags should enable everything")
	}
}

// TestLanguageKey verifies key naming.
func TestLanguageKey(t *testing.T) {
	tests := map[string]string{
		"typescript": "disableTypescript",
		"CPP":        "disableCpp",
		"go":         "disableGo",
		"":           "disable",
	}
	for id, want := range tests {
		if got := LanguageKey(id); got != want {
			t.Errorf("LanguageKey(%q) = %q, want %q", id, got, want)
		}
	}
}
