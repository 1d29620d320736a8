// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/kivama-tui/internal/config"
	"github.com/jeranaias/kivama-tui/internal/logging"
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the values of the command line flags.
type rootOptions struct {
	configPath string
	model      string
	ollamaURL  string
	logFile    string
	verbose    bool
	plain      bool
	tick       time.Duration
	jsonOutput bool
}

// app is the state shared by all commands of one invocation.
type app struct {
	opts   rootOptions
	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the kivama command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand builds the kivama command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "kivama",
		Short: "Chat with a local Ollama model in the terminal",
		Long: `kivama is a terminal chat client for a local Ollama server.

Type a message and press Enter; the reply streams in below it. Type "clear"
or press ctrl+l to start over. The whole conversation is sent with every
request, so the model sees everything said since the last clear.

Run without arguments to start the interactive chat interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context(), cmd.OutOrStdout())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&a.opts.configPath, "config", "c", "", "Config file (default: ~/.kivama/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&a.opts.model, "model", "m", "", "Ollama model to chat with")
	rootCmd.PersistentFlags().StringVar(&a.opts.ollamaURL, "ollama-url", "", "Ollama server URL")
	rootCmd.PersistentFlags().StringVar(&a.opts.logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable debug logging")

	// Chat flags
	rootCmd.Flags().BoolVar(&a.opts.plain, "plain", false, "Line-by-line chat without the full screen interface")
	rootCmd.Flags().DurationVar(&a.opts.tick, "tick", 0, "Redraw interval, one reply fragment per tick (e.g. 16ms)")

	rootCmd.AddCommand(a.newStatusCommand())
	rootCmd.AddCommand(a.newModelsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, a.opts)
	if err != nil {
		return &ConfigError{Err: err}
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Verbose: a.opts.verbose,
	})
	if err != nil {
		return &ConfigError{Err: err}
	}
	a.logger = logger

	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("model", cfg.Model),
		zap.String("ollama_url", cfg.Local.OllamaURL),
		zap.Duration("tick", cfg.TickInterval()))
	return nil
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(cmd *cobra.Command, opts rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if envPath, pathErr := config.EnvFilePath(); pathErr == nil {
		if err := config.LoadEnvFile(envPath); err != nil {
			return nil, err
		}
	}
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = opts.model
	}
	if flags.Changed("ollama-url") {
		cfg.Local.OllamaURL = opts.ollamaURL
	}
	if flags.Changed("log-file") {
		cfg.Log.Path = opts.logFile
	}
	if flags.Changed("tick") {
		cfg.UI.TickIntervalMs = int(opts.tick / time.Millisecond)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newClient creates an Ollama client for the loaded configuration.
func (a *app) newClient() *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      a.cfg.Local.OllamaURL,
		Timeout:      a.cfg.Timeout(),
		DefaultModel: a.cfg.Model,
	})
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kivama %s (commit %s, built %s) %s %s/%s\n",
				Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
