// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/jeranaias/kivama-tui/internal/session"
	"github.com/jeranaias/kivama-tui/internal/ui/chat"
	"github.com/jeranaias/kivama-tui/internal/util"
)

// LineSurface renders a session as a stream of lines. It implements
// session.Surface.
//
// User turns are printed right-aligned as soon as they are created. A reply
// is printed incrementally: every SetText writes only the text added since
// the last call.
type LineSurface struct {
	out    io.Writer
	output *termenv.Output
	width  int

	// Reply currently being printed
	reply   session.BlockHandle
	printed string
}

// NewLineSurface creates a surface writing to out, laid out for width columns.
func NewLineSurface(out io.Writer, width int) *LineSurface {
	return &LineSurface{
		out:    out,
		output: termenv.NewOutput(out),
		width:  clampWidth(width),
	}
}

// CreateBlock prints a user turn, or starts a new reply.
func (s *LineSurface) CreateBlock(align session.Alignment, text string) session.BlockHandle {
	s.EndReply()
	h := session.BlockHandle(uuid.NewString())

	if align == session.AlignRight {
		wrapped := util.WrapWidth(text, s.width-chat.ChatPadding)
		fmt.Fprintln(s.out, util.AlignRight(wrapped, s.width))
		return h
	}

	s.reply = h
	s.write(text)
	return h
}

// SetText prints the new tail of the current reply. Other handles are ignored.
func (s *LineSurface) SetText(h session.BlockHandle, text string) {
	if h == "" || h != s.reply {
		return
	}
	s.write(text)
}

// ClearAll clears the terminal and forgets the current reply.
func (s *LineSurface) ClearAll() {
	s.output.ClearScreen()
	s.reply = ""
	s.printed = ""
}

// EndReply finishes the current reply line, if any.
func (s *LineSurface) EndReply() {
	if s.reply == "" {
		return
	}
	if s.printed != "" && !strings.HasSuffix(s.printed, "\n") {
		fmt.Fprintln(s.out)
	}
	s.reply = ""
	s.printed = ""
}

// write brings the printed reply up to text.
func (s *LineSurface) write(text string) {
	if strings.HasPrefix(text, s.printed) {
		_, _ = io.WriteString(s.out, text[len(s.printed):])
	} else {
		// Not an extension of what is on screen: start over on a new line.
		_, _ = io.WriteString(s.out, "\n"+text)
	}
	s.printed = text
}
