package widget

import (
	"fmt"

	"github.com/zhouzirui/medchat/internal/model/chat"
)

// Sender tags who a transcript entry belongs to.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderBot       Sender = "bot"
	SenderAssistant Sender = "assistant"
)

// Label is the heading shown above an entry.
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "Medical Assistant"
}

// IsAssistant reports whether entries from s may carry sources.
func (s Sender) IsAssistant() bool {
	return s == SenderBot || s == SenderAssistant
}

// Entry is one visible item of the transcript.
type Entry struct {
	ID      string
	Sender  Sender
	Content string
	Sources []chat.Source
	// Loading marks the transient "thinking" placeholder.
	Loading bool
}

// HasSources reports whether a sources block should be rendered.
func (e Entry) HasSources() bool {
	return e.Sender.IsAssistant() && len(e.Sources) > 0
}

// transcript is the ordered list of visible entries.
type transcript struct {
	entries []Entry
	seq     int
}

func (t *transcript) append(e Entry) Entry {
	t.seq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("entry-%d", t.seq)
	}
	t.entries = append(t.entries, e)
	return e
}

func (t *transcript) remove(id string) (Entry, bool) {
	for i, e := range t.entries {
		if e.ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return e, true
		}
	}
	return Entry{}, false
}

func (t *transcript) snapshot() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
