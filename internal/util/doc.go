// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides terminal text helpers shared by the TUI and plain mode.
//
// # Key Functions
//
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - StringWidth, TruncateWidth: display-width aware measuring and cutting
//   - WrapWidth: hard wrap to a column budget
//   - AlignRight: right-align text against a column
//
// # Usage
//
//	// Right-align a user line in an 80 column terminal
//	line := util.AlignRight(util.WrapWidth(text, 60), 80)
package util
