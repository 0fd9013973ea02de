package widget

// EventKind enumerates the notifications a Widget publishes.
type EventKind int

const (
	// EntryAdded carries the appended entry.
	EntryAdded EventKind = iota + 1
	// EntryRemoved carries the removed entry.
	EntryRemoved
	// StateChanged carries the new state.
	StateChanged
	// ScrollToEnd asks the front-end to reveal the newest entry.
	ScrollToEnd
	// FocusInput asks the front-end to give focus back to the input field.
	FocusInput
)

func (k EventKind) String() string {
	switch k {
	case EntryAdded:
		return "entry-added"
	case EntryRemoved:
		return "entry-removed"
	case StateChanged:
		return "state-changed"
	case ScrollToEnd:
		return "scroll-to-end"
	case FocusInput:
		return "focus-input"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to every subscriber.
type Event struct {
	Kind  EventKind
	Entry Entry
	State State
}

// Handler receives widget events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// subscribers keeps handlers in registration order.
type subscribers struct {
	next int
	list []subscription
}

func (s *subscribers) add(fn Handler) int {
	s.next++
	s.list = append(s.list, subscription{id: s.next, fn: fn})
	return s.next
}

func (s *subscribers) remove(id int) {
	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *subscribers) clear() {
	s.list = nil
}

func (s *subscribers) publish(ev Event) {
	// Handlers may unsubscribe while being called.
	for _, sub := range append([]subscription(nil), s.list...) {
		sub.fn(ev)
	}
}
