// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"io"
)

// =============================================================================
// BACKEND CONTRACT
// =============================================================================

// Fragment is one chunk of assistant text delivered by the backend.
type Fragment struct {
	Content string
}

// Stream is a lazy, ordered sequence of fragments.
// Next returns io.EOF when the reply is complete.
type Stream interface {
	Next() (Fragment, error)
	Close() error
}

// =============================================================================
// CONSUMER
// =============================================================================

// Consumer drains a Stream one fragment at a time and enforces monotonic
// termination: after io.EOF or an error, every later Next returns io.EOF and
// the underlying stream is never read again.
type Consumer struct {
	stream Stream
	done   bool
	count  int
}

// NewConsumer wraps a backend stream.
func NewConsumer(s Stream) *Consumer {
	return &Consumer{stream: s}
}

// Next returns the next fragment, or io.EOF once the stream is exhausted.
// A non-EOF error is returned exactly once and ends the stream.
func (c *Consumer) Next() (Fragment, error) {
	if c.done || c.stream == nil {
		return Fragment{}, io.EOF
	}

	frag, err := c.stream.Next()
	if err != nil {
		c.finish()
		if errors.Is(err, io.EOF) {
			return Fragment{}, io.EOF
		}
		return Fragment{}, err
	}

	c.count++
	return frag, nil
}

// Done reports whether the stream has terminated.
func (c *Consumer) Done() bool {
	return c.done || c.stream == nil
}

// Count returns the number of fragments delivered.
func (c *Consumer) Count() int {
	return c.count
}

// Close abandons the stream. Safe to call repeatedly.
func (c *Consumer) Close() error {
	c.done = true
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}

func (c *Consumer) finish() {
	c.done = true
	if c.stream != nil {
		_ = c.stream.Close()
		c.stream = nil
	}
}
