// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the langcheck CLI.
package ux

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // Bright teal - highlights
	ColorTealPrimary = lipgloss.Color("#20B9B4") // Primary teal - headers
	ColorTealDeep    = lipgloss.Color("#16858E") // Deep teal - borders
	ColorSlate       = lipgloss.Color("#2C4A54") // Slate - muted text

	// Semantic colors
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorInfo    = lipgloss.Color("#1D9EA3")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Border  lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorSlate),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Info:    lipgloss.NewStyle().Foreground(ColorInfo),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary).Padding(0, 1),
	Border:  lipgloss.NewStyle().Foreground(ColorTealDeep),
}

// Icon provides status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Theme applies Styles only when color is enabled, so the same rendering
// code serves terminals, pipes and NO_COLOR users.
type Theme struct {
	color bool
}

// NewTheme returns a theme that colors output when color is true.
func NewTheme(color bool) Theme {
	return Theme{color: color}
}

// Color reports whether the theme emits ANSI styling.
func (t Theme) Color() bool { return t.color }

// Render applies style to text when color is enabled.
func (t Theme) Render(style lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return style.Render(text)
}

// Icon renders an icon in its semantic color.
func (t Theme) Icon(i Icon) string {
	switch i {
	case IconSuccess:
		return t.Render(Styles.Success, string(i))
	case IconWarning:
		return t.Render(Styles.Warning, string(i))
	case IconError:
		return t.Render(Styles.Error, string(i))
	case IconPending:
		return t.Render(Styles.Muted, string(i))
	default:
		return string(i)
	}
}

// Table renders rows under headers. With color enabled the table gets a
// rounded teal border; without, columns are separated by spaces only.
func (t Theme) Table(headers []string, rows [][]string) string {
	tbl := table.New().Headers(headers...).Rows(rows...)
	if !t.color {
		return tbl.
			Border(lipgloss.HiddenBorder()).
			BorderHeader(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			}).
			String()
	}
	return tbl.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
