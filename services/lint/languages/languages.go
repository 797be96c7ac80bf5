// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package languages holds the built-in language backends.
//
// Each backend is a registry.LanguageConfig value: extensions, tool
// discovery, an argument builder and an output parser. Parsers are pure
// functions over captured output and are tested against recorded tool
// output in parsers_test.go.
//
// # Supported Languages
//
//	| ID         | Tool          | Extensions                     |
//	|------------|---------------|--------------------------------|
//	| typescript | tsc           | .ts .tsx .mts .cts             |
//	| javascript | node --check  | .js .mjs .cjs                  |
//	| go         | go vet        | .go                            |
//	| python     | pyright       | .py .pyi                       |
//	| rust       | rustc / cargo | .rs                            |
//	| c          | gcc           | .c .h                          |
//	| cpp        | g++           | .cpp .cc .cxx .hpp .hh .hxx    |
//	| java       | javac         | .java                          |
//	| kotlin     | kotlinc       | .kt .kts                       |
//	| swift      | swiftc        | .swift                         |
//	| ruby       | ruby -wc      | .rb                            |
//	| php        | php -l        | .php                           |
//	| shell      | shellcheck    | .sh .bash                      |
//	| lua        | luac -p       | .lua                           |
package languages

import (
	"sync"

	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// All returns fresh copies of every built-in backend in display order.
func All() []*registry.LanguageConfig {
	return []*registry.LanguageConfig{
		TypeScript(),
		JavaScript(),
		Go(),
		Python(),
		Rust(),
		C(),
		CPP(),
		Java(),
		Kotlin(),
		Swift(),
		Ruby(),
		PHP(),
		Shell(),
		Lua(),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *registry.Registry
)

// Default returns the shared registry of built-in backends. It is built
// once and must not be mutated by callers.
func Default() *registry.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = registry.New(All()...)
	})
	return defaultRegistry
}
