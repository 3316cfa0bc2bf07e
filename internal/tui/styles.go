// Package tui provides the terminal landing page and its AI assistant panel.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/nhut0902/landingchat/internal/errors"
	"github.com/nhut0902/landingchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface      lipgloss.Color
	colorBorder       lipgloss.Color
	colorPrimary      lipgloss.Color
	colorSecondary    lipgloss.Color
	colorAccent       lipgloss.Color
	colorWarning      lipgloss.Color
	colorError        lipgloss.Color
	colorErrorSurface lipgloss.Color
	colorText         lipgloss.Color
	colorTextDim      lipgloss.Color
	colorTextMute     lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Landing page
	heroStyle        lipgloss.Style
	titleStyle       lipgloss.Style
	taglineStyle     lipgloss.Style
	sectionStyle     lipgloss.Style
	headingStyle     lipgloss.Style
	bodyStyle        lipgloss.Style
	previewStyle     lipgloss.Style
	captionStyle     lipgloss.Style
	linkStyle        lipgloss.Style
	linkKeyStyle     lipgloss.Style
	chatHintStyle    lipgloss.Style
	hintStyle        lipgloss.Style
	feedbackStyle    lipgloss.Style

	// Assistant panel
	panelStyle           lipgloss.Style
	panelTitleStyle      lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	timestampStyle       lipgloss.Style
	bannerStyle          lipgloss.Style
	inputPanelStyle      lipgloss.Style
	inputDisabledStyle   lipgloss.Style
	loadingStyle         lipgloss.Style

	// Status bar
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorErrorSurface = theme.ErrorSurface
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	heroStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	taglineStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	sectionStyle = lipgloss.NewStyle().
		Padding(1, 2)

	headingStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorPrimary).
		MarginBottom(1)

	bodyStyle = lipgloss.NewStyle().
		Foreground(colorText)

	previewStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Background(colorSurface).
		Padding(1, 2).
		Align(lipgloss.Center)

	captionStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	linkStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Underline(true)

	linkKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorSecondary).
		Bold(true).
		Padding(0, 1)

	chatHintStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorPrimary).
		Bold(true).
		Padding(0, 2)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorSurface).
		Bold(true).
		Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	timestampStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	bannerStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Background(colorErrorSurface).
		Bold(true).
		Padding(0, 1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputDisabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// FormatError returns a styled error message with additional context from
// the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.Is(err, apierrors.ErrMissingAPIKey):
		sb.WriteString(dimStyle.Render("\n  Hint: Set API_KEY (or GEMINI_API_KEY) in your environment"))
	case errors.Is(err, apierrors.ErrClientConfiguration):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your API key and the configured model"))
	case errors.Is(err, apierrors.ErrCapabilityLoad):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	}

	return sb.String()
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
