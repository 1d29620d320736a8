// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	Palette Palette

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderModel lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusState  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// ErrorStyle renders fatal errors
	ErrorStyle lipgloss.Style
}

// NewTheme creates a theme for the named palette ("dark" or "light").
// An empty or unknown name picks the palette from the terminal background.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	palette, ok := PaletteByName(strings.ToLower(name))
	if !ok {
		palette = LightPalette
		if termenv.HasDarkBackground() {
			palette = DarkPalette
		}
	}

	t := &Theme{
		IsDark:       palette.Name == DarkPalette.Name,
		ColorProfile: colorProfile,
		Palette:      palette,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	// Header
	t.Header = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Brand)

	t.HeaderModel = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(p.AssistantBubbleFg).
		Background(p.AssistantBubbleBg).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Brand).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.StatusState = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Brand).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
}

// BubbleFrameWidth is the horizontal space a bubble style adds around its text.
func (t *Theme) BubbleFrameWidth() int {
	return t.UserBubble.GetHorizontalFrameSize()
}

// RenderError renders an error message with an ASCII indicator.
func (t *Theme) RenderError(message string) string {
	return t.ErrorStyle.Render("[X] " + message)
}
