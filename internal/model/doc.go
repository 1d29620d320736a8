// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Role: Message role enumeration (user, assistant)
//   - Message: Immutable role-tagged message
//   - Transcript: Ordered, append-only message history sent to the model
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserMessage("Hi"))
//	t.Append(model.NewAssistantMessage("Hello there"))
//	req := t.ToOllamaMessages()
package model
