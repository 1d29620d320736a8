// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/jeranaias/kivama-tui/internal/model"
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// Backend opens a reply stream for the given model and history.
// Opening must not block on the network; failures surface from Stream.Next.
type Backend interface {
	OpenStream(ctx context.Context, modelName string, messages []model.Message) Stream
}

// OllamaBackend serves replies from a local Ollama server.
type OllamaBackend struct {
	Client *ollama.Client
}

// OpenStream starts a lazy /api/chat stream over the full history.
func (b OllamaBackend) OpenStream(ctx context.Context, modelName string, messages []model.Message) Stream {
	return ollamaStream{s: b.Client.OpenChatStream(ctx, modelName, model.ToOllamaMessages(messages))}
}

// ollamaStream adapts ollama.ChatStream to Stream.
type ollamaStream struct {
	s *ollama.ChatStream
}

func (o ollamaStream) Next() (Fragment, error) {
	chunk, err := o.s.Next()
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Content: chunk.Content}, nil
}

func (o ollamaStream) Close() error {
	return o.s.Close()
}
