// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import "github.com/jeranaias/kivama-tui/internal/util"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single role-tagged entry of the transcript.
// Messages are values; once appended to a Transcript they are never mutated.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with the given role.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// IsEmpty reports whether the message has no content.
func (m Message) IsEmpty() bool {
	return m.Content == ""
}

// Preview returns the content truncated to maxLen runes, with "..." appended
// when truncated.
func (m Message) Preview(maxLen int) string {
	if maxLen <= 0 {
		return m.Content
	}
	return util.TruncateRunes(m.Content, maxLen)
}
