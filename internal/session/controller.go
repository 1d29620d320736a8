// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/jeranaias/kivama-tui/internal/model"
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// ClearCommand is the reserved input that clears the session instead of
// being sent to the model.
const ClearCommand = "clear"

// ErrStreamFailed wraps any backend failure returned from Tick.
var ErrStreamFailed = errors.New("session: reply stream failed")

// =============================================================================
// STATE
// =============================================================================

// State is the session state.
type State int

const (
	StateIdle       State = iota // Ready for input
	StateResponding              // Draining a reply stream
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResponding:
		return "responding"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Config holds controller options.
type Config struct {
	// Model is the backend model identifier (default: "llama3")
	Model string

	// Context bounds every stream the controller opens (default: Background)
	Context context.Context

	// Logger receives session events (default: no-op)
	Logger *zap.Logger
}

// Controller is the chat session state machine.
type Controller struct {
	backend Backend
	surface Surface
	model   string
	ctx     context.Context
	logger  *zap.Logger
	folder  cases.Caser

	state      State
	transcript *model.Transcript

	// In-flight reply
	stream   *Consumer
	response strings.Builder
	block    BlockHandle
}

// NewController creates an Idle controller with an empty transcript.
func NewController(backend Backend, surface Surface, cfg Config) *Controller {
	if cfg.Model == "" {
		cfg.Model = ollama.DefaultModel
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Controller{
		backend:    backend,
		surface:    surface,
		model:      cfg.Model,
		ctx:        cfg.Context,
		logger:     cfg.Logger,
		folder:     cases.Fold(),
		state:      StateIdle,
		transcript: model.NewTranscript(),
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// Model returns the model identifier requests are sent to.
func (c *Controller) Model() string {
	return c.model
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []model.Message {
	return c.transcript.All()
}

// Response returns the text accumulated for the in-flight reply.
func (c *Controller) Response() string {
	return c.response.String()
}

// IsClearCommand reports whether text is the reserved clear command,
// ignoring case and surrounding whitespace.
func (c *Controller) IsClearCommand(text string) bool {
	return c.folder.String(strings.TrimSpace(text)) == ClearCommand
}

// Submit handles one line of user input.
//
// The clear command resets the session in any state. Otherwise empty input
// and input received while a reply is streaming are dropped silently.
func (c *Controller) Submit(rawText string) {
	if c.IsClearCommand(rawText) {
		c.Reset()
		return
	}

	if strings.TrimSpace(rawText) == "" {
		return
	}
	if c.state == StateResponding {
		c.logger.Debug("input dropped while responding", zap.Int("length", len(rawText)))
		return
	}

	c.surface.CreateBlock(AlignRight, rawText)
	c.transcript.Append(model.NewUserMessage(rawText))
	c.respond()
}

// respond opens a reply stream for the transcript, whose last message is the
// user turn just submitted.
func (c *Controller) respond() {
	c.response.Reset()
	c.block = c.surface.CreateBlock(AlignLeft, "")
	c.stream = NewConsumer(c.backend.OpenStream(c.ctx, c.model, c.transcript.All()))
	c.state = StateResponding

	c.logger.Info("reply stream opened",
		zap.String("model", c.model),
		zap.Int("messages", c.transcript.Len()))
}

// Tick pulls at most one fragment from the active stream.
//
// When the stream is exhausted the reply is appended to the transcript as an
// assistant message and the session returns to Idle. A backend failure
// abandons the partial reply, returns the session to Idle and is returned
// wrapped in ErrStreamFailed.
func (c *Controller) Tick() error {
	if c.state != StateResponding {
		return nil
	}

	frag, err := c.stream.Next()
	switch {
	case err == nil:
		c.response.WriteString(frag.Content)
		c.surface.SetText(c.block, c.response.String())
		return nil

	case errors.Is(err, io.EOF):
		c.finalize()
		return nil

	default:
		c.logger.Error("reply stream failed",
			zap.String("model", c.model),
			zap.Int("fragments", c.stream.Count()),
			zap.Error(err))
		c.abandon()
		return fmt.Errorf("%w: %w", ErrStreamFailed, err)
	}
}

// finalize promotes the reply buffer to an assistant message.
func (c *Controller) finalize() {
	content := c.response.String()
	c.transcript.Append(model.NewAssistantMessage(content))

	c.logger.Info("reply complete",
		zap.Int("fragments", c.stream.Count()),
		zap.Int("length", len(content)))

	c.abandon()
}

// abandon drops the stream and the reply buffer and goes Idle.
func (c *Controller) abandon() {
	if c.stream != nil {
		_ = c.stream.Close()
		c.stream = nil
	}
	c.response.Reset()
	c.block = ""
	c.state = StateIdle
}

// Reset clears the transcript and every block and abandons any in-flight
// reply without keeping its partial text. Calling it repeatedly is harmless.
func (c *Controller) Reset() {
	wasResponding := c.state == StateResponding

	c.transcript.Clear()
	c.surface.ClearAll()
	c.abandon()

	c.logger.Info("session reset", zap.Bool("abandoned_reply", wasResponding))
}

// Close abandons any in-flight reply. The transcript is kept.
func (c *Controller) Close() error {
	c.abandon()
	return nil
}
