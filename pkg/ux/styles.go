// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling and prompts for coursedeck.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Coursedeck color palette - chalkboard greens and campus brick
var (
	ColorGreenBright = lipgloss.Color("#4AD9A0") // highlights, success
	ColorGreen       = lipgloss.Color("#2FA878") // primary brand color
	ColorBrick       = lipgloss.Color("#C0564A") // accents
	ColorSlate       = lipgloss.Color("#5C6B73") // muted text, borders

	// Semantic colors
	ColorSuccess = lipgloss.Color("#4AD9A0")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box      lipgloss.Style
	ErrorBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorGreenBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorGreen),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorGreenBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGreen).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
	IconArrow   Icon = "→"
)

// Render returns the icon with appropriate styling.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return Styles.Muted.Render(string(i))
	}
}

// IsInteractive reports whether stdout is a terminal. Styling and
// interactive prompts are disabled when it is not (piped output,
// scripting, CI).
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Successf prints a styled success line to stdout.
func Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !IsInteractive() {
		fmt.Println(msg)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), msg)
}

// Errorf prints a styled error line to stdout.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !IsInteractive() {
		fmt.Println(msg)
		return
	}
	fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(msg))
}

// Warnf prints a styled warning line to stdout.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !IsInteractive() {
		fmt.Println(msg)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(msg))
}
