// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// This package implements the small slice of the Ollama local LLM server API
// the chat client needs: a health check, the installed model list and
// streaming chat completions.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - Message: Chat message with role and content
//   - ChatStream: Pull-based reader over a streaming chat reply
//   - StreamChunk: One fragment of the reply
//   - ClientError: Typed error with sentinel values for errors.Is
//
// # Usage
//
//	client := ollama.NewClient()
//	stream := client.OpenChatStream(ctx, "llama3", []ollama.Message{
//	    ollama.NewUserMessage("Hello"),
//	})
//	defer stream.Close()
//	for {
//	    chunk, err := stream.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.Content)
//	}
//
// The request is sent lazily on the first Next, one line of the NDJSON body
// is decoded per call, and the stream stays exhausted once it reports io.EOF.
package ollama
