package input

import (
	"context"

	hook "github.com/robotn/gohook"
)

// MouseSource turns mouse drags (movement with a button held) into
// absolute events using a global input hook.
type MouseSource struct{}

// NewMouseSource creates a MouseSource.
func NewMouseSource() *MouseSource {
	return &MouseSource{}
}

// Events starts the hook. Only one hook may run per process.
func (m *MouseSource) Events(ctx context.Context) (<-chan Event, error) {
	evChan := hook.Start()
	out := make(chan Event, 64)

	go func() {
		defer close(out)
		defer hook.End()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-evChan:
				if !ok {
					return
				}
				if ev, ok := dragEvent(e); ok {
					select {
					case out <- ev:
					default:
						// drop rather than stall the hook
					}
				}
			}
		}
	}()
	return out, nil
}

// dragEvent converts a hook event into an Event if it is a drag or press.
func dragEvent(e hook.Event) (Event, bool) {
	switch e.Kind {
	case hook.MouseDown, hook.MouseDrag:
		return Event{X: float64(e.X), Y: float64(e.Y)}, true
	}
	return Event{}, false
}
