// Package ui provides consistent terminal formatting for gitcam output.
// Colors degrade automatically when stdout is not a terminal.
package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	promptStyle  = color.New(color.FgBlue, color.Bold)
	dimStyle     = color.New(color.FgBlue, color.Faint)

	diffBanner    = color.New(color.BgBlue, color.FgWhite, color.Bold)
	reviewBanner  = color.New(color.BgGreen, color.FgWhite, color.Bold)
	messageBanner = color.New(color.BgMagenta, color.FgWhite, color.Bold)
)

// Header formats a section header.
func Header(text string) string {
	return "\n" + headerStyle.Sprintf("=== %s ===", text) + "\n"
}

// Success formats a success message.
func Success(text string) string {
	return successStyle.Sprint("✓ " + text)
}

// Error formats an error message.
func Error(text string) string {
	return errorStyle.Sprint("✗ " + text)
}

// Warning formats a warning message.
func Warning(text string) string {
	return warningStyle.Sprint("⚠ " + text)
}

// Prompt formats an input prompt lead-in.
func Prompt(text string) string {
	return promptStyle.Sprint("> " + text)
}

// Separator returns a dim horizontal rule sized to the terminal, falling
// back to 80 columns when stdout is not a terminal.
func Separator() string {
	width := 80
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return dimStyle.Sprint(strings.Repeat("─", width))
}

// DiffHeader returns the banner shown above a diff preview.
func DiffHeader() string {
	return diffBanner.Sprint(" DIFF ")
}

// ReviewHeader returns the banner shown above review output.
func ReviewHeader() string {
	return reviewBanner.Sprint(" REVIEW ")
}

// MessageHeader returns the banner shown above a generated commit message.
func MessageHeader() string {
	return messageBanner.Sprint(" COMMIT MESSAGE ")
}
