// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/kivama-tui/internal/session"
	"github.com/jeranaias/kivama-tui/internal/ui/chat"
	"github.com/jeranaias/kivama-tui/internal/ui/styles"
)

// runChat starts the interactive chat, full screen when stdin is a terminal.
func (a *app) runChat(ctx context.Context, out io.Writer) error {
	backend := session.OllamaBackend{Client: a.newClient()}

	if a.opts.plain || !IsTTY() {
		return a.runPlain(ctx, backend, out)
	}
	return a.runTUI(ctx, backend)
}

func (a *app) sessionConfig(ctx context.Context) session.Config {
	return session.Config{
		Model:   a.cfg.Model,
		Context: ctx,
		Logger:  a.logger.Named("session"),
	}
}

func (a *app) runTUI(ctx context.Context, backend session.Backend) error {
	blocks := chat.NewBlocks()
	ctrl := session.NewController(backend, blocks, a.sessionConfig(ctx))
	defer ctrl.Close()

	m := chat.New(ctrl, blocks, chat.Options{
		Title:        a.cfg.UI.Title,
		Theme:        styles.NewTheme(a.cfg.UI.Theme),
		TickInterval: a.cfg.TickInterval(),
		Logger:       a.logger.Named("ui"),
	})

	a.logger.Info("starting chat", zap.String("mode", "tui"), zap.String("model", a.cfg.Model))

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	if fm, ok := final.(chat.Model); ok {
		return fm.Err()
	}
	return nil
}

func (a *app) runPlain(ctx context.Context, backend session.Backend, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	surface := NewLineSurface(out, GetTerminalWidth())
	ctrl := session.NewController(backend, surface, a.sessionConfig(ctx))
	defer ctrl.Close()

	prompt := ""
	if IsTTY() {
		prompt = PlainPrompt
	}

	a.logger.Info("starting chat", zap.String("mode", "plain"), zap.String("model", a.cfg.Model))

	p := &Plain{
		Input:        line,
		Controller:   ctrl,
		Surface:      surface,
		TickInterval: a.cfg.TickInterval(),
		Prompt:       prompt,
	}
	return p.Run(ctx)
}
