package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/model/chat"
	"github.com/zhouzirui/medchat/internal/widget"
)

const (
	headerHeight = 1
	footerHeight = 3
	title        = "Medical Assistant"
)

// replyMsg carries the outcome of a dispatched chat request back into the
// update loop.
type replyMsg struct {
	pending *widget.PendingSend
	resp    *chat.Response
	err     error
}

// healthMsg reports the start-up health check.
type healthMsg struct {
	ok bool
}

// signals collects widget events between Update calls. It is shared by
// every copy of the Model.
type signals struct {
	scroll bool
	focus  bool
}

// Model is the Bubble Tea program around a chat widget.
type Model struct {
	ctx      context.Context
	widget   *widget.Widget
	renderer *Renderer
	logger   *zap.Logger

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	signals     *signals
	unsubscribe func()

	ready  bool
	width  int
	height int
	online *bool
}

// NewModel wires a Model to w. The widget's events are subscribed to here;
// call Close once the program exits.
func NewModel(ctx context.Context, w *widget.Widget, r *Renderer, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a medical question..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	sig := &signals{}
	unsubscribe := w.Subscribe(func(ev widget.Event) {
		switch ev.Kind {
		case widget.ScrollToEnd:
			sig.scroll = true
		case widget.FocusInput:
			sig.focus = true
		}
	})

	return Model{
		ctx:         ctx,
		widget:      w,
		renderer:    r,
		logger:      logger,
		input:       ti,
		spinner:     sp,
		signals:     sig,
		unsubscribe: unsubscribe,
	}
}

// Close detaches the model from the widget.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkHealth())
}

func (m Model) checkHealth() tea.Cmd {
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		return healthMsg{ok: w.CheckBackendHealth(ctx)}
	}
}

func (m Model) dispatch(p *widget.PendingSend) tea.Cmd {
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		resp, err := w.Dispatch(ctx, p)
		return replyMsg{pending: p, resp: resp, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.widget.Enabled() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case replyMsg:
		m.widget.CompleteSend(msg.pending, msg.resp, msg.err)
		if m.signals.focus {
			m.signals.focus = false
			cmds = append(cmds, m.input.Focus())
		}

	case healthMsg:
		ok := msg.ok
		m.online = &ok

	case spinner.TickMsg:
		if m.widget.State() != widget.StateAwaitingResponse {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// submit forwards the input line to the widget and starts the exchange.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.widget.SetInput(m.input.Value()) {
		return m, nil
	}
	p, ok := m.widget.BeginSend()
	if !ok {
		return m, nil
	}

	m.input.SetValue(m.widget.Input())
	m.input.Blur()
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.dispatch(p))
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vh := height - headerHeight - footerHeight
	if vh < 1 {
		vh = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 1

	if err := m.renderer.Resize(width); err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
	}
	m.signals.scroll = true
}

// refresh repaints the transcript and honours a pending scroll request.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderer.Transcript(m.widget.Entries(), m.spinner.View()))
	if m.signals.scroll {
		m.signals.scroll = false
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := headerStyle.Render(title)
	if m.online != nil && !*m.online {
		header += " " + mutedStyle.Render("backend unreachable")
	}

	help := "enter send • pgup/pgdn scroll • esc quit"
	if !m.widget.Enabled() {
		help = "waiting for response..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		"",
		m.input.View(),
		mutedStyle.Render(help),
	)
}
