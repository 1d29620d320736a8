// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/google/uuid"

	"github.com/jeranaias/kivama-tui/internal/session"
)

// =============================================================================
// BLOCK SURFACE
// =============================================================================

// Block is one aligned run of text in the conversation view.
type Block struct {
	Handle session.BlockHandle
	Align  session.Alignment
	Text   string
}

// Blocks is an ordered list of display blocks. It implements session.Surface.
// Not safe for concurrent use; the Bubble Tea update loop is its only writer.
type Blocks struct {
	order   []*Block
	index   map[session.BlockHandle]*Block
	version uint64
}

// NewBlocks creates an empty surface.
func NewBlocks() *Blocks {
	return &Blocks{index: make(map[session.BlockHandle]*Block)}
}

// CreateBlock appends a block and returns its handle.
func (b *Blocks) CreateBlock(align session.Alignment, text string) session.BlockHandle {
	blk := &Block{
		Handle: session.BlockHandle(uuid.NewString()),
		Align:  align,
		Text:   text,
	}
	b.order = append(b.order, blk)
	b.index[blk.Handle] = blk
	b.version++
	return blk.Handle
}

// SetText replaces the text of a block. Unknown handles are ignored.
func (b *Blocks) SetText(h session.BlockHandle, text string) {
	blk, ok := b.index[h]
	if !ok || blk.Text == text {
		return
	}
	blk.Text = text
	b.version++
}

// ClearAll removes every block. Handles issued before are no longer valid.
func (b *Blocks) ClearAll() {
	b.order = nil
	b.index = make(map[session.BlockHandle]*Block)
	b.version++
}

// Len returns the number of blocks.
func (b *Blocks) Len() int {
	return len(b.order)
}

// Text returns the text of the block with handle h.
func (b *Blocks) Text(h session.BlockHandle) (string, bool) {
	blk, ok := b.index[h]
	if !ok {
		return "", false
	}
	return blk.Text, true
}

// All returns a copy of the blocks in display order.
func (b *Blocks) All() []Block {
	out := make([]Block, len(b.order))
	for i, blk := range b.order {
		out[i] = *blk
	}
	return out
}

// Version changes every time the blocks change.
func (b *Blocks) Version() uint64 {
	return b.version
}
