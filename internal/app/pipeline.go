package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/input"
)

// ErrAlreadyRunning is returned by Start when a source is already running.
var ErrAlreadyRunning = errors.New("input pipeline already running")

// Run feeds events from src into the filter until ctx is done or the
// source closes, checking the idle timeout every PollInterval. A stroke
// still in progress when the source closes is recognized.
func (a *App) Run(ctx context.Context, src input.Source) error {
	events, err := src.Events(ctx)
	if err != nil {
		return fmt.Errorf("failed to start input: %w", err)
	}
	a.loop(ctx, events)
	return nil
}

func (a *App) loop(ctx context.Context, events <-chan input.Event) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				if a.State() == gesture.Active {
					a.Recognize()
				}
				return
			}
			a.Update(ev.X, ev.Y, ev.Relative)
		case <-ticker.C:
			a.HasGestureEnded()
		}
	}
}

// Start runs src in the background until Stop is called.
func (a *App) Start(src input.Source) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.cancel != nil {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := src.Events(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start input: %w", err)
	}

	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	go func() {
		defer close(done)
		a.loop(ctx, events)
	}()

	log.Println("Input pipeline started")
	return nil
}

// Stop halts the background pipeline and waits for it to exit.
func (a *App) Stop() {
	a.runMu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("Input pipeline stopped")
}

// Close stops the pipeline and waits for running plugin actions.
func (a *App) Close() {
	a.Stop()
	a.actions.Wait()
}
