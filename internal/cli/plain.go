// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/time/rate"

	"github.com/jeranaias/kivama-tui/internal/session"
)

// PlainPrompt is shown before each line in plain mode.
const PlainPrompt = "> "

// LineReader reads one line of user input. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Plain runs a chat session line by line.
type Plain struct {
	Input        LineReader
	Controller   *session.Controller
	Surface      *LineSurface
	TickInterval time.Duration
	Prompt       string
}

// Run reads lines until end of input, submitting each one and ticking the
// controller at TickInterval until the reply is complete. Ctrl+C at the
// prompt, ctrl+D and cancelling ctx all end the session cleanly. A stream
// failure ends it with that error.
func (p *Plain) Run(ctx context.Context) error {
	interval := p.TickInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for ctx.Err() == nil {
		text, err := p.Input.Prompt(p.Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(text) != "" {
			p.Input.AppendHistory(text)
		}

		p.Controller.Submit(text)
		err = p.drain(ctx, limiter)
		p.Surface.EndReply()
		if err != nil {
			return err
		}
	}
	return nil
}

// drain ticks the controller until the session is Idle again.
func (p *Plain) drain(ctx context.Context, limiter *rate.Limiter) error {
	for p.Controller.State() == session.StateResponding {
		if err := limiter.Wait(ctx); err != nil {
			// Cancelled; Run notices on its next pass.
			return nil
		}
		if err := p.Controller.Tick(); err != nil {
			return err
		}
	}
	return nil
}
