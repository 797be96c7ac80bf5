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

	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// C checks syntax and semantics with `gcc -fsyntax-only`.
func C() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "c",
		Name:         "C",
		Tool:         "gcc",
		Extensions:   []string{".c", ".h"},
		DetectConfig: detectAny("compile_commands.json", "Makefile", "CMakeLists.txt"),
		BuildArgs:    syntaxOnlyArgs(),
		ParseOutput:  parseGCCStyle,
	}
}

// CPP checks with `g++ -fsyntax-only`.
func CPP() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "cpp",
		Name:         "C++",
		Tool:         "g++",
		Extensions:   []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
		DetectConfig: detectAny("compile_commands.json", "Makefile", "CMakeLists.txt"),
		BuildArgs:    syntaxOnlyArgs("-std=c++17"),
		ParseOutput:  parseGCCStyle,
	}
}

// syntaxOnlyArgs builds gcc/g++ arguments. The project root and its
// include/ directory are added to the include path.
func syntaxOnlyArgs(extra ...string) registry.BuildArgsFunc {
	return func(inv registry.Invocation) []string {
		args := []string{"-fsyntax-only", "-Wall", "-fdiagnostics-color=never", "-fno-diagnostics-show-caret"}
		args = append(args, extra...)
		if inv.ProjectRoot != "" {
			args = append(args, "-I"+inv.ProjectRoot)
			if info, err := os.Stat(filepath.Join(inv.ProjectRoot, "include")); err == nil && info.IsDir() {
				args = append(args, "-I"+filepath.Join(inv.ProjectRoot, "include"))
			}
		}
		return append(args, inv.File)
	}
}
