package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zhouzirui/medchat/internal/widget"
)

// LineReader yields one line of user input per call and io.EOF when the
// user is done.
type LineReader interface {
	Readline() (string, error)
}

// RunPlain drives w from a line-oriented reader, printing entries as they
// are added. It returns nil on io.EOF or when ctx is cancelled.
func RunPlain(ctx context.Context, w *widget.Widget, in LineReader, out io.Writer, r *Renderer) error {
	unsubscribe := w.Subscribe(func(ev widget.Event) {
		if ev.Kind != widget.EntryAdded {
			return
		}
		fmt.Fprintln(out, r.Entry(ev.Entry, ""))
		fmt.Fprintln(out)
	})
	defer unsubscribe()

	w.Start(ctx)

	for {
		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		w.SetInput(line)
		w.SendMessage(ctx)
	}
}
