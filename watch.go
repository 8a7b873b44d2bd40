package fwlint

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/fwlint/pkg/adapters/fs"
	lcadapter "github.com/aretw0/fwlint/pkg/adapters/lifecycle"
	"github.com/aretw0/fwlint/pkg/core"
)

// Watch validates the collection once, then again after every batch of
// changes under Config.Root, until ctx is done. Each report is handed to
// onReport. The watcher runs under a supervisor that restarts it on failure.
func (l *Linter) Watch(ctx context.Context, opts CheckOptions, onReport func(*core.Report)) error {
	root := l.Config.Root
	events := make(chan core.Event, 64)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := fs.NewWatchWorker(root, l.Validator.Collector(), events, l.Logger)
			if d := l.Config.Watch.Debounce; d > 0 {
				w = w.WithDebounce(d)
			}
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   time.Minute,
			MaxRestarts:     5,
			MaxDuration:     10 * time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	// The initial run also proves the root can be enumerated.
	report, err := l.Check(ctx, opts)
	if err != nil {
		return err
	}
	onReport(report)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sup := supervisor.New("fwlint-watch", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(watchCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := sup.Stop(stopCtx); err != nil {
			l.Logger.Warn("failed to stop watcher", "error", err)
		}
	}()

	source := lcadapter.NewSource(events)
	if err := source.Start(watchCtx); err != nil {
		return err
	}
	l.Logger.Info("watching for changes", "root", root)

	changes := source.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-changes:
			if !ok {
				return nil
			}
			l.Logger.Info("change detected", "changes", e.String())

			report, err := l.Check(ctx, opts)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				l.Logger.Error("validation failed", "error", err)
				continue
			}
			onReport(report)
			l.Logger.Debug("validator state", "component", l.Validator.ComponentType(), "state", l.Validator.State())
		}
	}
}
