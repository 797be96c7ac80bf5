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
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

const (
	keyDisable    = "disable"
	keyLangPrefix = "disable"
)

// Flags is the persisted enable/disable state.
//
// On disk it is a flat mapping:
//
//	disable: false
//	disableTypescript: true
//	disablePython: true
//
// Keys are matched case-insensitively against language IDs. Keys that
// are not disable flags are preserved so hand edits survive a Save.
type Flags struct {
	// Disable turns off every language.
	Disable bool

	// Languages maps lowercase language IDs to their disabled state.
	Languages map[string]bool

	extra map[string]*yaml.Node
}

// IsDisabled reports whether id is off, either individually or globally.
func (f *Flags) IsDisabled(id string) bool {
	if f == nil {
		return false
	}
	return f.Disable || f.Languages[strings.ToLower(id)]
}

// SetLanguage records the state for one language. Enabling removes the
// key rather than writing false.
func (f *Flags) SetLanguage(id string, disabled bool) {
	id = strings.ToLower(id)
	if disabled {
		if f.Languages == nil {
			f.Languages = make(map[string]bool)
		}
		f.Languages[id] = true
		return
	}
	delete(f.Languages, id)
}

// Settings converts the flags for the engine. Only IDs the registry
// knows are carried over.
func (f *Flags) Settings(reg *registry.Registry) engine.Settings {
	s := engine.Settings{DisabledLanguages: make(map[string]bool)}
	if f == nil {
		return s
	}
	s.Disabled = f.Disable
	for id, off := range f.Languages {
		if !off {
			continue
		}
		if reg != nil {
			if _, ok := reg.Lookup(id); !ok {
				continue
			}
		}
		s.DisabledLanguages[id] = true
	}
	return s
}

// LanguageKey returns the YAML key for id, e.g. "disableTypescript".
func LanguageKey(id string) string {
	id = strings.ToLower(id)
	if id == "" {
		return keyDisable
	}
	return keyLangPrefix + strings.ToUpper(id[:1]) + id[1:]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flags) UnmarshalYAML(node *yaml.Node) error {
	f.Disable = false
	f.Languages = make(map[string]bool)
	f.extra = nil

	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: config must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch {
		case key.Value == keyDisable:
			if err := value.Decode(&f.Disable); err != nil {
				return fmt.Errorf("line %d: %s: %w", value.Line, key.Value, err)
			}
		case len(key.Value) > len(keyLangPrefix) && strings.HasPrefix(key.Value, keyLangPrefix):
			var off bool
			if err := value.Decode(&off); err != nil {
				return fmt.Errorf("line %d: %s: %w", value.Line, key.Value, err)
			}
			id := strings.ToLower(key.Value[len(keyLangPrefix):])
			if off {
				f.Languages[id] = true
			}
		default:
			if f.extra == nil {
				f.extra = make(map[string]*yaml.Node)
			}
			f.extra[key.Value] = value
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler. Output is "disable" first,
// then language keys sorted, then preserved keys sorted.
func (f Flags) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	}
	boolNode := func(b bool) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(b)}
	}

	add(keyDisable, boolNode(f.Disable))

	ids := make([]string, 0, len(f.Languages))
	for id, off := range f.Languages {
		if off {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		add(LanguageKey(id), boolNode(true))
	}

	keys := make([]string, 0, len(f.extra))
	for k := range f.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, f.extra[k])
	}
	return node, nil
}
