// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/kivama-tui/internal/model"
	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeStream yields a fixed list of fragments, then err (io.EOF by default).
type fakeStream struct {
	fragments []string
	err       error
	pos       int
	nextCalls int
	closed    int
}

func (s *fakeStream) Next() (Fragment, error) {
	s.nextCalls++
	if s.pos < len(s.fragments) {
		f := s.fragments[s.pos]
		s.pos++
		return Fragment{Content: f}, nil
	}
	if s.err != nil {
		return Fragment{}, s.err
	}
	return Fragment{}, io.EOF
}

func (s *fakeStream) Close() error {
	s.closed++
	return nil
}

// fakeBackend hands out queued streams and records each request.
type fakeBackend struct {
	streams  []*fakeStream
	requests [][]model.Message
	models   []string
}

func (b *fakeBackend) OpenStream(_ context.Context, modelName string, messages []model.Message) Stream {
	b.requests = append(b.requests, messages)
	b.models = append(b.models, modelName)
	if len(b.streams) == 0 {
		return &fakeStream{}
	}
	s := b.streams[0]
	b.streams = b.streams[1:]
	return s
}

type fakeBlock struct {
	align   Alignment
	text    string
	history []string
}

// fakeSurface records blocks and every text they displayed.
type fakeSurface struct {
	blocks  map[BlockHandle]*fakeBlock
	order   []BlockHandle
	clears  int
	counter int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{blocks: map[BlockHandle]*fakeBlock{}}
}

func (s *fakeSurface) CreateBlock(align Alignment, text string) BlockHandle {
	s.counter++
	h := BlockHandle("b" + strconv.Itoa(s.counter))
	s.blocks[h] = &fakeBlock{align: align, text: text}
	s.order = append(s.order, h)
	return h
}

func (s *fakeSurface) SetText(h BlockHandle, text string) {
	b, ok := s.blocks[h]
	if !ok {
		return
	}
	b.text = text
	b.history = append(b.history, text)
}

func (s *fakeSurface) ClearAll() {
	s.clears++
	s.blocks = map[BlockHandle]*fakeBlock{}
	s.order = nil
}

func (s *fakeSurface) last() *fakeBlock {
	if len(s.order) == 0 {
		return nil
	}
	return s.blocks[s.order[len(s.order)-1]]
}

func newTestController(streams ...*fakeStream) (*Controller, *fakeBackend, *fakeSurface) {
	backend := &fakeBackend{streams: streams}
	surface := newFakeSurface()
	ctrl := NewController(backend, surface, Config{Model: "llama3"})
	return ctrl, backend, surface
}

// tickUntilIdle ticks until the controller is Idle and returns the tick count.
func tickUntilIdle(t *testing.T, c *Controller) int {
	t.Helper()
	for i := 1; i <= 100; i++ {
		require.NoError(t, c.Tick())
		if c.State() == StateIdle {
			return i
		}
	}
	t.Fatal("controller never returned to Idle")
	return 0
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestNewController_Defaults(t *testing.T) {
	ctrl := NewController(&fakeBackend{}, newFakeSurface(), Config{})

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, ollama.DefaultModel, ctrl.Model())
	assert.Empty(t, ctrl.Transcript())
}

func TestSubmit_WhileIdle(t *testing.T) {
	inputs := []string{"Hi", "  padded  ", "What is Go?", "clear the table", "CLEARLY"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			ctrl, backend, surface := newTestController(&fakeStream{})

			ctrl.Submit(input)

			assert.Equal(t, StateResponding, ctrl.State())
			last := ctrl.Transcript()[len(ctrl.Transcript())-1]
			assert.Equal(t, model.NewUserMessage(input), last)

			// One user block and exactly one reply block
			require.Len(t, surface.order, 2)
			user := surface.blocks[surface.order[0]]
			reply := surface.blocks[surface.order[1]]
			assert.Equal(t, AlignRight, user.align)
			assert.Equal(t, input, user.text)
			assert.Equal(t, AlignLeft, reply.align)
			assert.Equal(t, "", reply.text)

			// The request includes the message just submitted
			require.Len(t, backend.requests, 1)
			assert.Equal(t, []model.Message{model.NewUserMessage(input)}, backend.requests[0])
			assert.Equal(t, []string{"llama3"}, backend.models)
		})
	}
}

func TestSubmit_WhileRespondingIsDropped(t *testing.T) {
	ctrl, backend, surface := newTestController(&fakeStream{fragments: []string{"a", "b"}})

	ctrl.Submit("first")
	require.NoError(t, ctrl.Tick())
	before := ctrl.Transcript()

	ctrl.Submit("second")
	ctrl.Submit("third")

	assert.Equal(t, StateResponding, ctrl.State())
	assert.Equal(t, before, ctrl.Transcript())
	assert.Len(t, surface.order, 2)
	assert.Len(t, backend.requests, 1)
	assert.Equal(t, "a", ctrl.Response())
}

func TestSubmit_EmptyInputIsDropped(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n"} {
		ctrl, backend, surface := newTestController()

		ctrl.Submit(input)

		assert.Equal(t, StateIdle, ctrl.State(), "input %q", input)
		assert.Empty(t, ctrl.Transcript())
		assert.Empty(t, surface.order)
		assert.Empty(t, backend.requests)
		assert.Equal(t, 0, surface.clears)
	}
}

func TestSubmit_ClearCommand(t *testing.T) {
	for _, input := range []string{"clear", "CLEAR", "  Clear ", "\tcLeAr\n"} {
		t.Run(strconv.Quote(input), func(t *testing.T) {
			ctrl, backend, surface := newTestController(&fakeStream{})

			ctrl.Submit("Hi")
			tickUntilIdle(t, ctrl)
			require.Len(t, ctrl.Transcript(), 2)

			ctrl.Submit(input)

			assert.Equal(t, StateIdle, ctrl.State())
			assert.Empty(t, ctrl.Transcript())
			assert.Empty(t, surface.order)
			assert.Equal(t, 1, surface.clears)
			assert.Len(t, backend.requests, 1, "clear must never be sent to the model")
		})
	}
}

func TestSubmit_ClearWhileResponding(t *testing.T) {
	stream := &fakeStream{fragments: []string{"partial", "more"}}
	ctrl, _, surface := newTestController(stream)

	ctrl.Submit("Hi")
	require.NoError(t, ctrl.Tick())

	ctrl.Submit(" Clear ")

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Empty(t, ctrl.Transcript(), "partial reply must not be kept")
	assert.Empty(t, surface.order)
	assert.Equal(t, 1, stream.closed)
	assert.Equal(t, "", ctrl.Response())
}

func TestIsClearCommand(t *testing.T) {
	ctrl, _, _ := newTestController()

	assert.True(t, ctrl.IsClearCommand("clear"))
	assert.True(t, ctrl.IsClearCommand("  CLEAR  "))
	assert.False(t, ctrl.IsClearCommand("clear it"))
	assert.False(t, ctrl.IsClearCommand(""))
}

// =============================================================================
// TICK TESTS
// =============================================================================

func TestTick_IdleIsNoop(t *testing.T) {
	ctrl, backend, surface := newTestController()

	require.NoError(t, ctrl.Tick())
	require.NoError(t, ctrl.Tick())

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Empty(t, backend.requests)
	assert.Empty(t, surface.order)
}

func TestTick_DrainsOneFragmentPerTick(t *testing.T) {
	stream := &fakeStream{fragments: []string{"Hel", "lo"}}
	ctrl, _, surface := newTestController(stream)

	ctrl.Submit("greet me")
	reply := surface.last()

	require.NoError(t, ctrl.Tick())
	assert.Equal(t, 1, stream.nextCalls)
	assert.Equal(t, "Hel", reply.text)
	assert.Equal(t, StateResponding, ctrl.State())

	require.NoError(t, ctrl.Tick())
	assert.Equal(t, 2, stream.nextCalls)
	assert.Equal(t, "Hello", reply.text)
	assert.Equal(t, StateResponding, ctrl.State())

	require.NoError(t, ctrl.Tick())
	assert.Equal(t, StateIdle, ctrl.State())

	// Exactly two intermediate display states, append-only
	assert.Equal(t, []string{"Hel", "Hello"}, reply.history)

	last := ctrl.Transcript()[len(ctrl.Transcript())-1]
	assert.Equal(t, model.NewAssistantMessage("Hello"), last)
	assert.Equal(t, 1, stream.closed)
}

func TestTick_EmptyReplyIsFinalized(t *testing.T) {
	ctrl, _, _ := newTestController(&fakeStream{})

	ctrl.Submit("Hi")
	assert.Equal(t, 1, tickUntilIdle(t, ctrl))

	assert.Equal(t, []model.Message{
		model.NewUserMessage("Hi"),
		model.NewAssistantMessage(""),
	}, ctrl.Transcript())
}

func TestTick_EndToEnd(t *testing.T) {
	ctrl, backend, surface := newTestController(&fakeStream{fragments: []string{"Hello", " there"}})

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Empty(t, ctrl.Transcript())

	ctrl.Submit("Hi")
	assert.Equal(t, StateResponding, ctrl.State())
	assert.Equal(t, []model.Message{model.NewUserMessage("Hi")}, ctrl.Transcript())

	reply := surface.last()
	require.NoError(t, ctrl.Tick())
	assert.Equal(t, "Hello", reply.text)
	require.NoError(t, ctrl.Tick())
	assert.Equal(t, "Hello there", reply.text)
	require.NoError(t, ctrl.Tick())

	want := []model.Message{
		{Role: model.RoleUser, Content: "Hi"},
		{Role: model.RoleAssistant, Content: "Hello there"},
	}
	if diff := cmp.Diff(want, ctrl.Transcript()); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Len(t, backend.requests, 1)
}

func TestTick_RoundTrip(t *testing.T) {
	ctrl, backend, _ := newTestController(
		&fakeStream{fragments: []string{"one"}},
		&fakeStream{fragments: []string{"two"}},
	)

	ctrl.Submit("first")
	assert.Equal(t, StateResponding, ctrl.State())
	tickUntilIdle(t, ctrl)
	assert.Equal(t, StateIdle, ctrl.State())

	ctrl.Submit("second")
	assert.Equal(t, StateResponding, ctrl.State())

	// Second request carries the whole history in order
	require.Len(t, backend.requests, 2)
	assert.Equal(t, []model.Message{
		model.NewUserMessage("first"),
		model.NewAssistantMessage("one"),
		model.NewUserMessage("second"),
	}, backend.requests[1])

	tickUntilIdle(t, ctrl)
	assert.Len(t, ctrl.Transcript(), 4)
}

func TestTick_StreamFailure(t *testing.T) {
	stream := &fakeStream{fragments: []string{"par"}, err: ollama.ErrNotRunning}
	ctrl, _, _ := newTestController(stream)

	ctrl.Submit("Hi")
	require.NoError(t, ctrl.Tick())

	err := ctrl.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStreamFailed)
	assert.True(t, ollama.IsNotRunning(err))

	// No partial message is kept and the session is usable again
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, []model.Message{model.NewUserMessage("Hi")}, ctrl.Transcript())
	assert.Equal(t, 1, stream.closed)
	assert.NoError(t, ctrl.Tick())
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestReset_Idempotent(t *testing.T) {
	ctrl, _, surface := newTestController(&fakeStream{fragments: []string{"x"}})
	ctrl.Submit("Hi")

	for i := 0; i < 2; i++ {
		ctrl.Reset()
		assert.Equal(t, StateIdle, ctrl.State())
		assert.Empty(t, ctrl.Transcript())
		assert.Empty(t, surface.order)
	}
	assert.Equal(t, 2, surface.clears)
}

func TestReset_AbandonsStreamWithoutFinalizing(t *testing.T) {
	stream := &fakeStream{fragments: []string{"a", "b", "c"}}
	ctrl, _, _ := newTestController(stream)

	ctrl.Submit("Hi")
	require.NoError(t, ctrl.Tick())
	ctrl.Reset()

	// The abandoned stream is never read again
	calls := stream.nextCalls
	require.NoError(t, ctrl.Tick())
	assert.Equal(t, calls, stream.nextCalls)
	assert.Empty(t, ctrl.Transcript())
	assert.Equal(t, 1, stream.closed)
}

func TestClose_KeepsTranscript(t *testing.T) {
	stream := &fakeStream{fragments: []string{"a"}}
	ctrl, _, _ := newTestController(stream)

	ctrl.Submit("Hi")
	require.NoError(t, ctrl.Close())

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, []model.Message{model.NewUserMessage("Hi")}, ctrl.Transcript())
	assert.Equal(t, 1, stream.closed)
}

// =============================================================================
// CONSUMER TESTS
// =============================================================================

func TestConsumer_MonotonicTermination(t *testing.T) {
	stream := &fakeStream{fragments: []string{"x"}}
	c := NewConsumer(stream)

	frag, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", frag.Content)
	assert.False(t, c.Done())

	for i := 0; i < 3; i++ {
		_, err := c.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
	assert.True(t, c.Done())
	assert.Equal(t, 2, stream.nextCalls, "exhausted stream must not be polled again")
	assert.Equal(t, 1, c.Count())
}

func TestConsumer_ErrorReturnedOnce(t *testing.T) {
	boom := errors.New("boom")
	stream := &fakeStream{err: boom}
	c := NewConsumer(stream)

	_, err := c.Next()
	assert.ErrorIs(t, err, boom)

	_, err = c.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, stream.closed)
}

// resurrectingStream misbehaves by yielding again after io.EOF.
type resurrectingStream struct{ calls int }

func (s *resurrectingStream) Next() (Fragment, error) {
	s.calls++
	if s.calls == 1 {
		return Fragment{}, io.EOF
	}
	return Fragment{Content: "zombie"}, nil
}

func (s *resurrectingStream) Close() error { return nil }

func TestConsumer_NeverResurrects(t *testing.T) {
	c := NewConsumer(&resurrectingStream{})

	_, err := c.Next()
	require.ErrorIs(t, err, io.EOF)

	_, err = c.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsumer_CloseIsIdempotent(t *testing.T) {
	stream := &fakeStream{fragments: []string{"x"}}
	c := NewConsumer(stream)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, stream.closed)

	_, err := c.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, stream.nextCalls)
}

func TestConsumer_NilStream(t *testing.T) {
	c := NewConsumer(nil)
	_, err := c.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, c.Done())
	assert.NoError(t, c.Close())
}

// =============================================================================
// STRINGER TESTS
// =============================================================================

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "responding", StateResponding.String())
	assert.Equal(t, "unknown", State(7).String())
}

func TestAlignment_String(t *testing.T) {
	assert.Equal(t, "left", AlignLeft.String())
	assert.Equal(t, "right", AlignRight.String())
	assert.Equal(t, "unknown", Alignment(9).String())
}

// =============================================================================
// OLLAMA BACKEND TESTS
// =============================================================================

func TestOllamaBackend_StreamsIntoController(t *testing.T) {
	var got ollama.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, f := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, `{"model":"llama3","message":{"role":"assistant","content":%q},"done":false}`+"\n", f)
		}
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: srv.URL})
	surface := newFakeSurface()
	ctrl := NewController(OllamaBackend{Client: client}, surface, Config{Model: "llama3"})
	defer ctrl.Close()

	ctrl.Submit("Hi")
	tickUntilIdle(t, ctrl)

	assert.Equal(t, "llama3", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Hi", got.Messages[0].Content)
	assert.Equal(t, []string{"Hel", "Hello"}, surface.last().history)
	assert.Equal(t, []model.Message{
		model.NewUserMessage("Hi"),
		model.NewAssistantMessage("Hello"),
	}, ctrl.Transcript())
}
