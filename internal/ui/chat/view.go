// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/kivama-tui/internal/session"
	"github.com/jeranaias/kivama-tui/internal/ui/styles"
	"github.com/jeranaias/kivama-tui/internal/util"
)

// minTextWidth keeps bubbles readable in very narrow terminals.
const minTextWidth = 10

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// COMPONENTS
// =============================================================================

func (m Model) renderHeader() string {
	style := m.theme.Header
	width := m.width - style.GetHorizontalBorderSize()
	if width < 1 {
		width = 1
	}

	// Keep the header on one line.
	inner := width - style.GetHorizontalPadding()
	title := util.TruncateWidth(m.title, inner)
	modelName := util.TruncateWidth(m.controller.Model(), inner-util.StringWidth(title)-2)

	content := m.theme.HeaderTitle.Render(title)
	if modelName != "" {
		content += "  " + m.theme.HeaderModel.Render(modelName)
	}
	return style.Width(width).Render(content)
}

func (m Model) renderInput() string {
	width := m.width - m.theme.InputContainer.GetHorizontalBorderSize()
	if width < 1 {
		width = 1
	}
	return m.theme.InputContainer.Width(width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.err != nil:
		left = m.theme.RenderError(m.err.Error())
	case m.controller.State() == session.StateResponding:
		left = m.spinner.View() + " " + m.theme.StatusState.Render("responding")
	default:
		left = m.theme.StatusState.Render("ready")
	}

	var shortcuts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		shortcuts = append(shortcuts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(shortcuts, "  ")

	contentWidth := m.width - m.theme.StatusBar.GetHorizontalPadding()
	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough room for the shortcuts.
		return m.theme.StatusBar.Render(util.TruncateWidth(left, contentWidth))
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// CONVERSATION
// =============================================================================

// renderBlocks lays out blocks for a viewport width columns wide. User blocks
// hug the right edge and replies the left; each keeps ChatPadding columns
// free on its other side.
func renderBlocks(blocks []Block, width int, theme *styles.Theme) string {
	if len(blocks) == 0 {
		return ""
	}

	textWidth := width - ChatPadding - theme.BubbleFrameWidth()
	if textWidth < minTextWidth {
		textWidth = minTextWidth
	}

	rendered := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		text := util.WrapWidth(blk.Text, textWidth)

		if blk.Align == session.AlignRight {
			bubble := theme.UserBubble.Render(text)
			rendered = append(rendered, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
			continue
		}
		bubble := theme.AssistantBubble.Render(text)
		rendered = append(rendered, lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble))
	}
	return strings.Join(rendered, "\n\n")
}
