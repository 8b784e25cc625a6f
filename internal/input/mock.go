package input

import (
	"context"
	"time"
)

// MockSource replays a fixed list of events, optionally spaced by Interval.
type MockSource struct {
	events   []Event
	Interval time.Duration
}

// NewMockSource creates a MockSource replaying events.
func NewMockSource(events []Event, interval time.Duration) *MockSource {
	return &MockSource{events: events, Interval: interval}
}

// Events replays the events and closes the channel when done.
func (m *MockSource) Events(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event)
	go func() {
		defer close(out)
		for _, ev := range m.events {
			if m.Interval > 0 {
				select {
				case <-time.After(m.Interval):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
