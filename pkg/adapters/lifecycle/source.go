// Package lifecycle adapts fwlint watch events to the lifecycle runtime.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/fwlint/pkg/core"
)

// Batch is a set of document changes handled by one validation run.
// Each path appears once, with its latest event, in order of first change.
type Batch struct {
	Events []core.Event
}

func (b *Batch) add(e core.Event) {
	for i := range b.Events {
		if b.Events[i].Path == e.Path {
			b.Events[i] = e
			return
		}
	}
	b.Events = append(b.Events, e)
}

// Paths lists the changed paths.
func (b Batch) Paths() []string {
	out := make([]string, len(b.Events))
	for i, e := range b.Events {
		out[i] = e.Path
	}
	return out
}

// String implements lifecycle.Event.
func (b Batch) String() string {
	switch len(b.Events) {
	case 0:
		return "no changes"
	case 1:
		return b.Events[0].String()
	}
	const shown = 3
	paths := b.Paths()
	if len(paths) <= shown {
		return fmt.Sprintf("%d changes: %s", len(paths), strings.Join(paths, ", "))
	}
	return fmt.Sprintf("%d changes: %s and %d more", len(paths), strings.Join(paths[:shown], ", "), len(paths)-shown)
}

type batchSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a Batch per validation run.
// Changes arriving while the consumer is busy are merged into the pending
// batch, so a burst of edits during a run causes a single rerun.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &batchSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *batchSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *batchSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)

		var pending Batch
		for {
			var out chan lifecycle.Event
			if len(pending.Events) > 0 {
				out = s.out
			}

			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					s.flush(ctx, pending)
					return nil
				}
				pending.add(e)
				if !s.drain(&pending) {
					s.flush(ctx, pending)
					return nil
				}
			case out <- pending:
				pending = Batch{}
			}
		}
	})
	return nil
}

// drain merges the events already queued. It reports false once the input
// is closed.
func (s *batchSource) drain(b *Batch) bool {
	for {
		select {
		case e, ok := <-s.events:
			if !ok {
				return false
			}
			b.add(e)
		default:
			return true
		}
	}
}

func (s *batchSource) flush(ctx context.Context, b Batch) {
	if len(b.Events) == 0 {
		return
	}
	select {
	case s.out <- b:
	case <-ctx.Done():
	}
}
