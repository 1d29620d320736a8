// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/kivama-tui/internal/session"
	"github.com/jeranaias/kivama-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// ChatPadding is the number of columns a block keeps free on the side
	// it is not aligned to.
	ChatPadding = 20

	// DefaultTickInterval is the session tick cadence when none is configured.
	DefaultTickInterval = 16 * time.Millisecond

	// DefaultTitle is the header title when none is configured.
	DefaultTitle = "Kivama"
)

// Layout heights reserved around the viewport. These MUST match the rendered
// heights in view.go.
const (
	headerHeight    = 3 // rounded border around one line
	inputAreaHeight = 3 // top and bottom rule around the input line
	statusBarHeight = 1
)

// =============================================================================
// MODEL
// =============================================================================

// Options configures a chat Model.
type Options struct {
	// Title is shown in the header (default: DefaultTitle)
	Title string

	// Theme styles every component (default: dark)
	Theme *styles.Theme

	// TickInterval is the session tick cadence (default: DefaultTickInterval)
	TickInterval time.Duration

	// Logger receives UI events (default: no-op)
	Logger *zap.Logger
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	controller *session.Controller
	blocks     *Blocks
	theme      *styles.Theme
	keys       KeyMap
	logger     *zap.Logger

	// Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	title        string
	tickInterval time.Duration

	// Dimensions
	width  int
	height int

	// rendered is the Blocks version currently in the viewport
	rendered uint64
	// renderedWidth is the width that content was wrapped for
	renderedWidth int

	err      error
	quitting bool
}

// New creates a chat model driving controller, which must have been created
// with blocks as its surface.
func New(controller *session.Controller, blocks *Blocks, opts Options) Model {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.DarkPalette.Name)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	theme := opts.Theme

	// Create text input with prompt
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	// Create viewport
	vp := viewport.New(80, 20)
	vp.SetContent("")

	// Create spinner with ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	m := Model{
		controller:   controller,
		blocks:       blocks,
		theme:        theme,
		keys:         DefaultKeyMap(),
		logger:       opts.Logger,
		input:        ti,
		viewport:     vp,
		spinner:      sp,
		title:        opts.Title,
		tickInterval: opts.TickInterval,
		width:        80,
		height:       20 + headerHeight + inputAreaHeight + statusBarHeight,
	}
	m.syncViewport()
	return m
}

// Init starts the cursor blink, the spinner and the session tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tickCmd(m.tickInterval))
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

// Controller returns the session controller the model drives.
func (m Model) Controller() *session.Controller {
	return m.controller
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	// The input line sits in a container with Padding(0, 1), after the prompt.
	const promptLen = 2 // "> "
	inputWidth := m.width - 2 - promptLen - 1
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.syncViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.controller.Reset()
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		// The input box is cleared whether or not the line is accepted.
		text := m.input.Value()
		m.input.Reset()
		m.controller.Submit(text)
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTick advances the session by one fragment and schedules the next tick.
// A stream failure stops the program.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if err := m.controller.Tick(); err != nil {
		m.logger.Error("stopping on stream failure", zap.Error(err))
		m.err = err
		m.syncViewport()
		return m, tea.Quit
	}

	m.syncViewport()
	return m, tickCmd(m.tickInterval)
}

// syncViewport re-renders the conversation when the blocks or the width
// changed, keeping the view pinned to the bottom.
func (m *Model) syncViewport() {
	if m.blocks.Version() == m.rendered && m.viewport.Width == m.renderedWidth {
		return
	}
	m.viewport.SetContent(renderBlocks(m.blocks.All(), m.viewport.Width, m.theme))
	m.viewport.GotoBottom()
	m.rendered = m.blocks.Version()
	m.renderedWidth = m.viewport.Width
}
