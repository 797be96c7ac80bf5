// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EventPostToolUse is the only event that triggers a check.
const EventPostToolUse = "PostToolUse"

// editTools are the tool names that create or modify files, lowercased.
var editTools = map[string]bool{
	"write":        true,
	"edit":         true,
	"multiedit":    true,
	"notebookedit": true,
}

var (
	// ErrMalformedEvent indicates the payload is not valid JSON.
	ErrMalformedEvent = errors.New("malformed hook event")

	// ErrInvalidEvent indicates a required field is missing.
	ErrInvalidEvent = errors.New("invalid hook event")
)

var eventValidate = validator.New()

// ToolInput is the subset of the editor tool's arguments langcheck reads.
type ToolInput struct {
	FilePath string `json:"file_path" validate:"required_without=NotebookPath"`

	// NotebookPath is sent instead of FilePath by notebook edits.
	NotebookPath string `json:"notebook_path"`
}

// Event is one editor notification read from stdin.
type Event struct {
	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name" validate:"required"`
	ToolInput     ToolInput `json:"tool_input"`
	CWD           string    `json:"cwd" validate:"required"`
	SessionID     string    `json:"session_id"`
}

// ParseEvent decodes and validates a payload.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := eventValidate.Struct(&ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return &ev, nil
}

// IsEditTool reports whether the named tool modifies files.
func IsEditTool(name string) bool {
	return editTools[strings.ToLower(strings.TrimSpace(name))]
}

// Triggers reports whether eventName should run a check. An empty name
// is treated as PostToolUse.
func Triggers(eventName string) bool {
	eventName = strings.TrimSpace(eventName)
	return eventName == "" || strings.EqualFold(eventName, EventPostToolUse)
}

// Path returns the touched file, joined with CWD when relative.
func (e *Event) Path() string {
	p := e.ToolInput.FilePath
	if p == "" {
		p = e.ToolInput.NotebookPath
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(e.CWD, p)
	}
	return filepath.Clean(p)
}
