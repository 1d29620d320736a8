// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a Theme is built from.
type Palette struct {
	Name string

	// Accents
	Accent lipgloss.Color
	Brand  lipgloss.Color
	Error  lipgloss.Color

	// Surfaces
	Surface    lipgloss.Color
	SurfaceDim lipgloss.Color
	Overlay    lipgloss.Color

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Message bubbles
	UserBubbleBg      lipgloss.Color
	UserBubbleFg      lipgloss.Color
	AssistantBubbleBg lipgloss.Color
	AssistantBubbleFg lipgloss.Color
}

// =============================================================================
// PALETTES
// =============================================================================

// DarkPalette is the Catppuccin Mocha inspired palette for dark terminals.
var DarkPalette = Palette{
	Name: "dark",

	Accent: "#A78BFA", // Purple
	Brand:  "#22D3EE", // Cyan
	Error:  "#FB7185", // Rose

	Surface:    "#1E1E2E",
	SurfaceDim: "#181825",
	Overlay:    "#313244",

	TextPrimary:   "#CDD6F4",
	TextSecondary: "#A6ADC8",
	TextMuted:     "#6C7086",

	UserBubbleBg:      "#1D4ED8",
	UserBubbleFg:      "#E0F2FE",
	AssistantBubbleBg: "#3B3655",
	AssistantBubbleFg: "#E9E4F5",
}

// LightPalette is the matching palette for light terminals.
var LightPalette = Palette{
	Name: "light",

	Accent: "#7C3AED",
	Brand:  "#0891B2",
	Error:  "#E11D48",

	Surface:    "#FFFFFF",
	SurfaceDim: "#F5F5F5",
	Overlay:    "#E5E5E5",

	TextPrimary:   "#1F2937",
	TextSecondary: "#6B7280",
	TextMuted:     "#9CA3AF",

	UserBubbleBg:      "#DBEAFE",
	UserBubbleFg:      "#1E40AF",
	AssistantBubbleBg: "#F5F3FF",
	AssistantBubbleFg: "#5B4B8A",
}

// PaletteByName returns the palette for "dark" or "light".
// Any other name reports false.
func PaletteByName(name string) (Palette, bool) {
	switch name {
	case DarkPalette.Name:
		return DarkPalette, true
	case LightPalette.Name:
		return LightPalette, true
	default:
		return Palette{}, false
	}
}
