// Package ui holds the terminal styling for command output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors as ANSI codes so they follow the terminal theme
const (
	ColorSuccess lipgloss.Color = "2"
	ColorError   lipgloss.Color = "1"
	ColorWarning lipgloss.Color = "3"
	ColorInfo    lipgloss.Color = "6"
	ColorMuted   lipgloss.Color = "8"
)

const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarning = "⚠"
	SymbolStep    = "◆"
	SymbolBullet  = "•"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	infoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
	frameStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// Success prints "✓ message"
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render(SymbolSuccess), fmt.Sprintf(format, args...))
}

// Warn prints "⚠ message"
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render(SymbolWarning), fmt.Sprintf(format, args...))
}

// Fail prints "✗ message"
func Fail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render(SymbolFail), fmt.Sprintf(format, args...))
}

// Step prints a section heading
func Step(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", infoStyle.Render(SymbolStep), fmt.Sprintf(format, args...))
}

// Detail prints a muted, indented "label: value" line
func Detail(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render(label+":"), value)
}

// Title renders the banner shown at the start of setup
func Title(text string) string {
	return titleStyle.Render(text)
}

// Muted renders secondary text
func Muted(text string) string {
	return mutedStyle.Render(text)
}

// Frame draws a rounded border around renderer output. The renderer's own
// ANSI colors pass through; the trailing newline is dropped.
func Frame(output string) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		output = Muted("(empty)")
	}
	return frameStyle.Render(output)
}
