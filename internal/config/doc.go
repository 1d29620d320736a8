// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for kivama.
//
// Supports both TOML and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - LocalConfig: Ollama server connection settings
//   - UIConfig: Title, theme and tick cadence
//   - LogConfig: Log file location and level
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the caller)
//   - Environment variables (KIVAMA_*, OLLAMA_HOST)
//   - ~/.kivama/.env (fills only variables that are unset or empty)
//   - --config path, or ~/.kivama/config.toml, or ~/.kivama/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Model)
package config
