// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	"github.com/jeranaias/kivama-tui/internal/config"
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the Ollama server could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates the configured model is not installed
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// ConfigError marks a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode determines the process exit status for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *ConfigError
	var validation config.ValidateErrors
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &validation):
		return ExitConfigError
	case ollama.IsModelNotFound(err):
		return ExitNotFoundError
	case ollama.IsTimeout(err):
		return ExitTimeoutError
	case ollama.IsNotRunning(err):
		return ExitNetworkError
	}

	var clientErr *ollama.ClientError
	if errors.As(err, &clientErr) && clientErr.Type == ollama.ErrTypeConnection {
		return ExitNetworkError
	}
	return ExitGeneralError
}
