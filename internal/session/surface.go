// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// =============================================================================
// RENDER SURFACE
// =============================================================================

// Alignment is the horizontal placement of a render block.
type Alignment int

const (
	AlignLeft  Alignment = iota // Assistant replies
	AlignRight                  // User turns
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// BlockHandle identifies one block on a Surface.
type BlockHandle string

// Surface is the append-only list of display blocks the UI shows.
// The controller only creates blocks, sets their text and clears them all;
// layout belongs to the implementation.
type Surface interface {
	CreateBlock(align Alignment, text string) BlockHandle
	SetText(h BlockHandle, text string)
	ClearAll()
}
