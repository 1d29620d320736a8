// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"
)

// maxLineSize bounds a single NDJSON line from the server.
const maxLineSize = 1 << 20

// =============================================================================
// CHAT STREAM
// =============================================================================

// ChatStream is a pull-based reader over a streaming /api/chat response.
//
// Each call to Next parses one NDJSON line and returns its chunk. The stream
// is exhausted after the line marked done (or when the body ends); from then
// on Next always returns io.EOF. A ChatStream is not safe for concurrent use.
type ChatStream struct {
	client  *Client
	ctx     context.Context
	cancel  context.CancelFunc
	request ChatRequest

	body    io.ReadCloser
	scanner *bufio.Scanner
	started bool
	done    bool
	err     error

	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	chunkCount  int
	model       string
	startTime   time.Time
}

// Model returns the model requested, or the model reported by the server
// once the first line is read.
func (s *ChatStream) Model() string {
	if s.model != "" {
		return s.model
	}
	return s.request.Model
}

// Next returns the next chunk of the reply.
//
// It returns io.EOF once the reply is complete. Any other error is fatal for
// the stream: it is returned once and every later call returns io.EOF.
func (s *ChatStream) Next() (StreamChunk, error) {
	if s.done {
		return StreamChunk{}, io.EOF
	}

	if !s.started {
		s.started = true
		s.startTime = time.Now()
		body, err := s.client.startChat(s.ctx, s.request)
		if err != nil {
			return StreamChunk{}, s.fail(err)
		}
		s.body = body
		s.scanner = bufio.NewScanner(body)
		s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		// Skip empty lines
		if len(line) == 0 {
			continue
		}

		chunk, err := s.parseLine(line)
		if err != nil {
			return StreamChunk{}, s.fail(err)
		}
		if chunk.Done {
			s.finish()
			if chunk.Content == "" {
				return StreamChunk{}, io.EOF
			}
			return chunk, nil
		}
		if chunk.Content == "" {
			continue
		}
		return chunk, nil
	}

	if err := s.scanner.Err(); err != nil {
		return StreamChunk{}, s.fail(transportError(err))
	}

	// Body ended without a done marker; treat as exhaustion.
	s.finish()
	return StreamChunk{}, io.EOF
}

// parseLine decodes a single NDJSON line into a chunk.
func (s *ChatStream) parseLine(line []byte) (StreamChunk, error) {
	var response chatStreamLine
	if err := json.Unmarshal(line, &response); err != nil {
		return StreamChunk{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed stream line", Cause: err}
	}
	if response.Error != "" {
		return StreamChunk{}, &ClientError{Type: ErrTypeInvalidResponse, Message: response.Error}
	}

	// Track the model
	if response.Model != "" {
		s.model = response.Model
	}

	content := response.Message.Content
	if content != "" {
		s.accumulator.WriteString(content)
		s.chunkCount++
	}

	chunk := StreamChunk{
		Content:    content,
		Done:       response.Done,
		DoneReason: response.DoneReason,
		Model:      s.model,
	}

	// On completion, extract statistics
	if response.Done {
		chunk.TotalDuration = time.Duration(response.TotalDuration)
		chunk.EvalDuration = time.Duration(response.EvalDuration)
		chunk.PromptTokens = response.PromptEvalCount
		chunk.CompletionTokens = response.EvalCount
	}

	return chunk, nil
}

// fail records a fatal error and releases the connection.
func (s *ChatStream) fail(err error) error {
	s.err = err
	s.finish()
	return err
}

// finish marks the stream exhausted and releases the connection.
func (s *ChatStream) finish() {
	s.done = true
	s.release()
}

func (s *ChatStream) release() {
	if s.body != nil {
		_ = s.body.Close()
		s.body = nil
	}
	s.cancel()
}

// Close abandons the stream. It is safe to call more than once and after
// exhaustion. The server may keep generating; only the client stops reading.
func (s *ChatStream) Close() error {
	s.done = true
	s.release()
	return nil
}

// Err returns the fatal error that ended the stream, if any.
// Close is not an error.
func (s *ChatStream) Err() error {
	if errors.Is(s.err, io.EOF) {
		return nil
	}
	return s.err
}

// GetAccumulated returns all content received so far.
func (s *ChatStream) GetAccumulated() string {
	return s.accumulator.String()
}

// GetChunkCount returns the number of content chunks received.
func (s *ChatStream) GetChunkCount() int {
	return s.chunkCount
}

// Elapsed returns the time since the request was sent.
func (s *ChatStream) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}
