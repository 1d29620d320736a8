// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the kivama TUI.

# Palettes (colors.go)

Two fixed palettes, DarkPalette and LightPalette, selected with the
ui.theme config key. Each carries accent, surface, text and message
bubble colors.

# Theme (theme.go)

Theme turns a palette into Lip Gloss styles for the header, the two
message bubbles, the input area, the status bar and errors:

	theme := styles.NewTheme(cfg.UI.Theme)
	line := theme.UserBubble.Render("Hi")

When the theme name is empty the palette follows the terminal background
as reported by termenv.
*/
package styles
