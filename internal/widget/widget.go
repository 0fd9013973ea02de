// Package widget holds the chat client component: the transcript the user
// sees, the history sent to the backend, the input buffer and the
// idle/awaiting state.
//
// A Widget is owned by a single goroutine (typically a UI event loop). Only
// Dispatch and CheckBackendHealth may run elsewhere; neither touches widget
// state.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/model/chat"
)

const (
	// FallbackErrorMessage is shown for every failed exchange.
	FallbackErrorMessage = "Sorry, I encountered an error. Please make sure the backend server is running on http://localhost:8000"
	// LoadingText is the body of the placeholder entry.
	LoadingText = "Thinking..."
)

var errEmptyResponse = errors.New("empty chat response")

// API is the backend surface the widget needs.
type API interface {
	Chat(ctx context.Context, req chat.Request) (*chat.Response, error)
	Health(ctx context.Context) error
}

// State is the input-control state of the widget.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// Option customises a Widget.
type Option func(*Widget)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithIDGenerator overrides how placeholder ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(w *Widget) {
		if fn != nil {
			w.newID = fn
		}
	}
}

// Widget is the chat client component.
type Widget struct {
	api    API
	logger *zap.Logger
	newID  func() string

	transcript transcript
	history    []chat.Turn
	input      string
	state      State
	pending    *PendingSend

	subs subscribers
	wg   sync.WaitGroup
}

// New creates an idle widget bound to api.
func New(api API, opts ...Option) *Widget {
	w := &Widget{
		api:    api,
		logger: zap.NewNop(),
		newID:  func() string { return "loading-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the best-effort health check in the background.
func (w *Widget) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.CheckBackendHealth(ctx)
	}()
}

// Close drops every subscriber and waits for background work started by
// Start. Cancel the context passed to Start to cut a slow health check short.
func (w *Widget) Close() {
	w.subs.clear()
	w.wg.Wait()
}

// Subscribe registers h and returns the func that removes it.
func (w *Widget) Subscribe(h Handler) (unsubscribe func()) {
	id := w.subs.add(h)
	var once sync.Once
	return func() {
		once.Do(func() { w.subs.remove(id) })
	}
}

// State reports the current state.
func (w *Widget) State() State {
	return w.state
}

// Enabled reports whether the input controls accept input.
func (w *Widget) Enabled() bool {
	return w.state == StateIdle
}

// Input returns the pending input buffer.
func (w *Widget) Input() string {
	return w.input
}

// SetInput replaces the input buffer. It is refused while controls are
// disabled.
func (w *Widget) SetInput(text string) bool {
	if !w.Enabled() {
		return false
	}
	w.input = text
	return true
}

// Entries returns a copy of the visible transcript.
func (w *Widget) Entries() []Entry {
	return w.transcript.snapshot()
}

// History returns a copy of the turns that will accompany the next request.
func (w *Widget) History() []chat.Turn {
	out := make([]chat.Turn, len(w.history))
	copy(out, w.history)
	return out
}

// AddMessage appends an entry and asks the front-end to scroll to it.
// Sources are kept only for assistant entries and only when non-empty.
func (w *Widget) AddMessage(content string, sender Sender, sources []chat.Source) Entry {
	e := Entry{Sender: sender, Content: content}
	if sender.IsAssistant() && len(sources) > 0 {
		e.Sources = append([]chat.Source(nil), sources...)
	}
	return w.appendEntry(e)
}

// AddLoadingMessage appends the "thinking" placeholder and returns its id.
func (w *Widget) AddLoadingMessage() string {
	e := w.appendEntry(Entry{
		ID:      w.newID(),
		Sender:  SenderBot,
		Content: LoadingText,
		Loading: true,
	})
	return e.ID
}

// RemoveLoadingMessage removes the entry with id if it is still present.
func (w *Widget) RemoveLoadingMessage(id string) {
	e, ok := w.transcript.remove(id)
	if !ok {
		return
	}
	w.subs.publish(Event{Kind: EntryRemoved, Entry: e, State: w.state})
}

func (w *Widget) appendEntry(e Entry) Entry {
	e = w.transcript.append(e)
	w.subs.publish(Event{Kind: EntryAdded, Entry: e, State: w.state})
	w.subs.publish(Event{Kind: ScrollToEnd, Entry: e, State: w.state})
	return e
}

func (w *Widget) setState(s State) {
	if w.state == s {
		return
	}
	w.state = s
	w.subs.publish(Event{Kind: StateChanged, State: s})
}

// PendingSend describes an exchange started by BeginSend.
type PendingSend struct {
	Query     string
	LoadingID string
	Request   chat.Request
}

// BeginSend validates the input buffer and moves the widget into the
// awaiting state. It returns false, changing nothing, when the trimmed input
// is empty or a request is already in flight.
func (w *Widget) BeginSend() (*PendingSend, bool) {
	if !w.Enabled() {
		return nil, false
	}

	query := strings.TrimSpace(w.input)
	if query == "" {
		return nil, false
	}

	w.setState(StateAwaitingResponse)
	w.AddMessage(query, SenderUser, nil)
	w.input = ""

	p := &PendingSend{
		Query: query,
		Request: chat.Request{
			Query:               query,
			ConversationHistory: w.History(),
		},
	}
	p.LoadingID = w.AddLoadingMessage()
	w.pending = p
	return p, true
}

// Dispatch performs the network exchange for p. It does not touch widget
// state and may run on any goroutine.
func (w *Widget) Dispatch(ctx context.Context, p *PendingSend) (*chat.Response, error) {
	resp, err := w.api.Chat(ctx, p.Request)
	if err == nil && resp == nil {
		err = errEmptyResponse
	}
	return resp, err
}

// CompleteSend applies the outcome of Dispatch. The placeholder is removed
// before the final entry is appended, and the controls are re-enabled on
// every path.
func (w *Widget) CompleteSend(p *PendingSend, resp *chat.Response, err error) {
	if p == nil || p != w.pending {
		w.logger.Warn("ignoring completion for a stale exchange")
		return
	}
	defer func() {
		w.pending = nil
		w.setState(StateIdle)
		w.subs.publish(Event{Kind: FocusInput, State: w.state})
	}()

	w.RemoveLoadingMessage(p.LoadingID)

	if err == nil && resp == nil {
		err = errEmptyResponse
	}
	if err != nil {
		w.logger.Error("chat request failed", zap.String("query", p.Query), zap.Error(err))
		w.AddMessage(FallbackErrorMessage, SenderBot, nil)
		return
	}

	w.AddMessage(resp.Response, SenderBot, resp.Sources)
	w.history = append(w.history,
		chat.UserTurn(p.Query),
		chat.AssistantTurn(resp.Response),
	)
}

// SendMessage runs a whole exchange on the calling goroutine. It reports
// whether a request was issued.
func (w *Widget) SendMessage(ctx context.Context) bool {
	p, ok := w.BeginSend()
	if !ok {
		return false
	}
	resp, err := w.Dispatch(ctx, p)
	w.CompleteSend(p, resp, err)
	return true
}

// CheckBackendHealth pings the backend and logs the outcome. It never
// affects the transcript or the input state.
func (w *Widget) CheckBackendHealth(ctx context.Context) bool {
	if err := w.api.Health(ctx); err != nil {
		w.logger.Warn("backend is not running; start it with: go run ./cmd/api", zap.Error(err))
		return false
	}
	w.logger.Info("backend is running")
	return true
}
