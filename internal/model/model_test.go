// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "Hello", msg.Content)
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage("Response")

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "Response", msg.Content)
}

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{Role("other"), "other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.DisplayName())
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("Hello, world")

	assert.Equal(t, "Hello, world", msg.Preview(0))
	assert.Equal(t, "Hello, world", msg.Preview(50))
	assert.Equal(t, "Hello...", msg.Preview(8))
	assert.Equal(t, "He", msg.Preview(2))
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hi"))
	tr.Append(NewAssistantMessage("Hello there"))
	tr.Append(NewUserMessage("How are you?"))

	want := []Message{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello there"},
		{Role: RoleUser, Content: "How are you?"},
	}
	if diff := cmp.Diff(want, tr.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, tr.Len())
}

func TestTranscript_AllReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hi"))

	all := tr.All()
	all[0].Content = "mutated"

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "Hi", last.Content)
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hi"))
	tr.Append(NewAssistantMessage("Hello"))

	tr.Clear()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.All())

	_, ok := tr.Last()
	assert.False(t, ok)

	// Clearing twice is harmless and the store stays usable.
	tr.Clear()
	tr.Append(NewUserMessage("again"))
	assert.Equal(t, 1, tr.Len())
}

func TestTranscript_EmptyContentIsStructurallyAllowed(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewAssistantMessage(""))

	last, ok := tr.Last()
	require.True(t, ok)
	assert.True(t, last.IsEmpty())
}

func TestTranscript_ToOllamaMessages(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hi"))
	tr.Append(NewAssistantMessage("Hello there"))

	want := []ollama.Message{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello there"},
	}
	if diff := cmp.Diff(want, tr.ToOllamaMessages()); diff != "" {
		t.Errorf("ToOllamaMessages() mismatch (-want +got):\n%s", diff)
	}
}

func TestToOllamaMessages_Empty(t *testing.T) {
	got := ToOllamaMessages(nil)
	require.NotNil(t, got)
	assert.Len(t, got, 0)
}
