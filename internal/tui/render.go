// Package tui renders the chat widget in a terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhouzirui/medchat/internal/widget"
)

var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	sourcesStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	mutedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
)

const defaultWrap = 80

// Renderer turns transcript entries into terminal text. Backend text is
// shown literally, with control sequences stripped, unless rich rendering
// is enabled, in which case it is treated as markdown.
type Renderer struct {
	rich  bool
	width int
	md    *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at width columns.
func NewRenderer(rich bool, width int) (*Renderer, error) {
	r := &Renderer{rich: rich}
	if err := r.Resize(width); err != nil {
		return nil, err
	}
	return r, nil
}

// Rich reports whether markdown rendering is on.
func (r *Renderer) Rich() bool {
	return r.rich
}

// Resize rebuilds the markdown renderer for a new width.
func (r *Renderer) Resize(width int) error {
	if width <= 0 {
		width = defaultWrap
	}
	if width == r.width && (r.md != nil || !r.rich) {
		return nil
	}
	r.width = width

	if !r.rich {
		return nil
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	r.md = md
	return nil
}

// Transcript renders every entry separated by blank lines.
func (r *Renderer) Transcript(entries []widget.Entry, spinner string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, r.Entry(e, spinner))
	}
	return strings.Join(parts, "\n\n")
}

// Entry renders a single entry: label, body and optional sources block.
func (r *Renderer) Entry(e widget.Entry, spinner string) string {
	var b strings.Builder

	label := e.Sender.Label() + ":"
	if e.Sender == widget.SenderUser {
		b.WriteString(userLabelStyle.Render(label))
	} else {
		b.WriteString(assistantLabelStyle.Render(label))
	}
	b.WriteString("\n")

	switch {
	case e.Loading:
		if spinner != "" {
			b.WriteString(spinner)
			b.WriteString(" ")
		}
		b.WriteString(mutedStyle.Render(e.Content))
	case r.rich && e.Sender.IsAssistant():
		b.WriteString(r.markdown(e.Content))
	default:
		b.WriteString(Sanitize(e.Content))
	}

	if e.HasSources() {
		b.WriteString("\n")
		b.WriteString(sourcesStyle.Render("Sources:"))
		for _, src := range e.Sources {
			b.WriteString("\n• ")
			b.WriteString(Sanitize(src.Title))
		}
	}

	return b.String()
}

// markdown renders content with glamour, falling back to literal text.
func (r *Renderer) markdown(content string) (out string) {
	clean := Sanitize(content)
	if r.md == nil {
		return clean
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = clean
		}
	}()

	rendered, err := r.md.Render(clean)
	if err != nil {
		return clean
	}
	return strings.Trim(rendered, "\n")
}

// Sanitize strips ANSI escape sequences and other control characters so
// backend text cannot drive the terminal. Newlines and tabs survive.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			return -1
		default:
			return r
		}
	}, s)
}
