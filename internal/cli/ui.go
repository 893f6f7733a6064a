package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output shared by the commands. Status lines go through the
// print helpers so every command reports successes, failures and written
// artifacts the same way, and the lipgloss styles live here so the
// palette stays consistent across commands and the live view.

// Palette. Kept to the xterm 256-color range so output degrades cleanly
// in plain terminals.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber renders numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleSuccess renders success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// statusLine prints an icon followed by a formatted message.
func statusLine(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

// printSuccess reports a completed operation.
func printSuccess(format string, args ...any) {
	statusLine(styleIconSuccess, iconSuccess, format, args...)
}

// printError reports a failed operation.
func printError(format string, args ...any) {
	statusLine(styleIconError, iconError, format, args...)
}

// printWarning reports a recoverable problem, such as a cache backend that
// failed to open.
func printWarning(format string, args ...any) {
	msg := StyleWarning.Render(fmt.Sprintf(format, args...))
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + msg)
}

// printInfo reports progress or state.
func printInfo(format string, args ...any) {
	statusLine(styleIconInfo, iconInfo, format, args...)
}

// printDetail prints an indented, dimmed detail under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at an artifact written to disk.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printMarkup prints one source expression and the LaTeX generated for it.
func printMarkup(source, markup string) {
	fmt.Println("  " + StyleDim.Render(source) + " " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(markup))
}

// printExpressionError prints a failed expression with its position in the
// batch. Positions are one-based, matching the order the expressions were
// given on the command line.
func printExpressionError(index int, source string, err error) {
	label := fmt.Sprintf("expression %d:", index+1)
	fmt.Println("  " + styleIconError.Render(iconError) + " " + StyleDim.Render(label) + " " + StyleValue.Render(source))
	fmt.Println("    " + StyleWarning.Render(err.Error()))
}

// printKeyValue prints an aligned label and value pair.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a render on one dimmed line, ending with whether
// the artifact came from cache.
func printStats(exprCount, nodeCount int, cached bool) {
	var parts []string
	if exprCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d expressions", exprCount)))
	}
	if nodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)))
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
