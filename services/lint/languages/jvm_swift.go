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
	"time"

	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// Kotlin compiles with kotlinc. The JVM start-up makes it the slowest
// backend, hence the long timeout.
func Kotlin() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "kotlin",
		Name:         "Kotlin",
		Tool:         "kotlinc",
		Extensions:   []string{".kt", ".kts"},
		Timeout:      120 * time.Second,
		DetectConfig: detectAny("build.gradle.kts", "build.gradle", "settings.gradle.kts"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{inv.File, "-d", inv.ScratchDir}
		},
		ParseOutput: parseGCCStyle,
	}
}

// Swift type-checks with `swiftc -typecheck`.
func Swift() *registry.LanguageConfig {
	return &registry.LanguageConfig{
		ID:           "swift",
		Name:         "Swift",
		Tool:         "swiftc",
		Extensions:   []string{".swift"},
		Timeout:      60 * time.Second,
		DetectConfig: detectAny("Package.swift"),
		BuildArgs: func(inv registry.Invocation) []string {
			return []string{"-typecheck", inv.File}
		},
		ParseOutput: parseGCCStyle,
	}
}
