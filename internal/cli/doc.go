// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the kivama command line.
//
// # Commands
//
//   - kivama: interactive chat (Bubble Tea TUI, or plain mode)
//   - kivama status: check that the Ollama server answers
//   - kivama models: list locally installed models
//   - kivama version: print build information
//
// # Plain Mode
//
// With --plain, or when stdin is not a terminal, chat runs line by line:
// input is read with liner, replies stream straight to stdout and the clear
// command clears the screen. It drives the same session controller as the
// TUI.
//
// # Exit Codes
//
// ExitCode maps errors to the process exit status: configuration errors,
// an unreachable Ollama server, a missing model and timeouts each have
// their own code.
package cli
