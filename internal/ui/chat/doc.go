// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view for kivama.
//
// # Key Types
//
//   - Blocks: the render surface the session controller writes to
//   - Model: the Bubble Tea model owning input, viewport and status bar
//   - KeyMap: keyboard bindings
//
// # Event Flow
//
// Key presses go to the text input until Enter, which submits the line to
// the session controller. A periodic tick message drives the controller,
// which draws one reply fragment per tick into Blocks. Whenever Blocks
// changes the viewport is re-rendered and scrolled to the bottom.
//
// # Usage
//
//	blocks := chat.NewBlocks()
//	ctrl := session.NewController(backend, blocks, session.Config{Model: "llama3"})
//	m := chat.New(ctrl, blocks, chat.Options{Theme: styles.NewTheme("dark")})
//	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
package chat
