package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StepNameStyle = lipgloss.NewStyle().
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Symbols for visual feedback.
const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
)

// Status is the outcome shown on a step status line.
type Status int

const (
	StatusRunning Status = iota
	StatusDone
	StatusFailed
)

// StatusLine renders one pipeline step report. With styled=false the line is
// plain text suitable for logs and pipes.
func StatusLine(styled bool, status Status, name string, elapsed time.Duration) string {
	symbol, style := SymbolArrowRight, TitleStyle
	switch status {
	case StatusDone:
		symbol, style = SymbolCheck, SuccessStyle
	case StatusFailed:
		symbol, style = SymbolCross, ErrorStyle
	}

	suffix := ""
	if status == StatusDone || status == StatusFailed {
		suffix = fmt.Sprintf(" (%s)", elapsed.Round(time.Millisecond))
	}

	if !styled {
		return fmt.Sprintf("%s %s%s", symbol, name, suffix)
	}
	return style.Render(symbol) + " " + StepNameStyle.Render(name) + MutedStyle.Render(suffix)
}
