// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered message history of a chat session.
// It is append-only during a session and cleared wholesale on reset.
//
// A Transcript is not safe for concurrent use; the session controller is its
// only writer.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]Message, 0, 16)}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// All returns a copy of the messages in order.
func (t *Transcript) All() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Clear removes every message.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// =============================================================================
// OLLAMA CONVERSION
// =============================================================================

// ToOllamaMessages converts the transcript into the request payload for the
// Ollama chat endpoint. Only role and content are sent, in order; empty
// messages are kept so the history is sent verbatim.
func (t *Transcript) ToOllamaMessages() []ollama.Message {
	return ToOllamaMessages(t.messages)
}

// ToOllamaMessages converts a message slice into Ollama wire messages.
func ToOllamaMessages(msgs []Message) []ollama.Message {
	out := make([]ollama.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ollama.Message{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return out
}
