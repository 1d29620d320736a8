// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session state machine.
//
// A Controller owns the transcript and the reply currently being streamed.
// The UI calls Submit when the user presses Enter and Tick once per redraw;
// each Tick pulls exactly one fragment from the backend stream and appends it
// to the reply block on the Render Surface. When the stream is exhausted the
// reply becomes an assistant message and the session is Idle again.
//
// # Key Types
//
//   - Controller: Submit/Tick/Reset state machine (Idle, Responding)
//   - Consumer: Monotonic wrapper over a backend Stream
//   - Backend, Stream, Fragment: Inference backend contract
//   - Surface, BlockHandle, Alignment: Render Surface contract
//   - OllamaBackend: Backend backed by an ollama.Client
//
// # Usage
//
//	ctrl := session.NewController(session.OllamaBackend{Client: client}, surface, session.Config{
//	    Model:  "llama3",
//	    Logger: logger,
//	})
//	ctrl.Submit("Hi")
//	for ctrl.State() == session.StateResponding {
//	    if err := ctrl.Tick(); err != nil {
//	        return err
//	    }
//	}
//
// The Controller is not safe for concurrent use. All calls must come from the
// UI event loop.
package session
