package gesture

import (
	"fmt"
	"time"
)

// Clock returns the current time in milliseconds. Only differences between
// readings are used.
type Clock func() int64

// SystemClock reads the wall clock.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// State is the gesture state of a SamplingFilter.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Active means points are being collected into the buffer.
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FilterConfig holds SamplingFilter settings.
type FilterConfig struct {
	// Capacity is the number of points the sample buffer retains.
	Capacity int
	// IdleTimeoutMs is the input silence that ends a gesture.
	IdleTimeoutMs int64
	// MinPointIntervalMs is the minimum time between two accepted points.
	MinPointIntervalMs int64
	// MinDistance is the minimum spacing between two accepted points.
	MinDistance float64
	// Clock defaults to SystemClock.
	Clock Clock
	// Tracer receives filter events when set.
	Tracer Tracer
}

// DefaultFilterConfig returns settings for a recognizer resampling to
// resampledLength values: room for 1.5x as many points and a one second
// idle timeout.
func DefaultFilterConfig(resampledLength int) FilterConfig {
	return FilterConfig{
		Capacity:      resampledLength * 3 / 4,
		IdleTimeoutMs: 1000,
	}
}

// Validate checks the configuration.
func (c FilterConfig) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	case c.IdleTimeoutMs <= 0:
		return fmt.Errorf("%w: idle timeout %dms", ErrInvalidConfig, c.IdleTimeoutMs)
	case c.MinPointIntervalMs < 0:
		return fmt.Errorf("%w: min point interval %dms", ErrInvalidConfig, c.MinPointIntervalMs)
	case c.MinDistance < 0:
		return fmt.Errorf("%w: min distance %v", ErrInvalidConfig, c.MinDistance)
	}
	return nil
}

// SamplingFilter reduces a dense point stream to a sparse stroke held in a
// SampleBuffer and detects where gestures end. It is not safe for concurrent
// use; give each input stream its own filter.
type SamplingFilter[T Number] struct {
	cfg   FilterConfig
	clock Clock
	buf   *SampleBuffer[T]
	onEnd func(*SampleBuffer[T])

	state        State
	pos          Point[T]
	lastSubmit   int64
	lastAccepted int64
	current      int64
}

// NewSamplingFilter allocates a filter and its sample buffer.
func NewSamplingFilter[T Number](cfg FilterConfig) (*SamplingFilter[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buf, err := NewSampleBuffer[T](cfg.Capacity)
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}
	now := clock()
	return &SamplingFilter[T]{
		cfg:          cfg,
		clock:        clock,
		buf:          buf,
		lastSubmit:   now,
		lastAccepted: now,
		current:      now,
	}, nil
}

// OnGestureEnd registers fn to run on every end transition, before the
// buffer can be reset by the next gesture. fn must not keep the buffer.
func (f *SamplingFilter[T]) OnGestureEnd(fn func(*SampleBuffer[T])) {
	f.onEnd = fn
}

// Submit offers one input point. With relative set, x and y are deltas
// added to the running position. It reports whether the point was written
// to the buffer.
//
// A submission arriving IdleTimeoutMs or more after the previous one ends
// the gesture in progress and starts a new one anchored at this point; it
// reports false in that case. Non-finite points are dropped without
// touching the filter state.
func (f *SamplingFilter[T]) Submit(p Point[T], relative bool) bool {
	if !p.Finite() {
		if f.cfg.Tracer != nil {
			f.cfg.Tracer("drop", "reason", "non-finite")
		}
		return false
	}
	now := f.clock()
	elapsed := now - f.lastSubmit
	f.lastSubmit = now
	f.current = now

	if f.state == Active && elapsed >= f.cfg.IdleTimeoutMs {
		f.end()
		f.start(p, relative)
		return false
	}
	if f.state == Idle {
		f.start(p, relative)
		return true
	}

	if relative {
		f.pos = f.pos.Add(p)
	} else {
		f.pos = p
	}

	last, _ := f.buf.Last()
	if d := last.Dist(f.pos); d < f.cfg.MinDistance {
		f.buf.MergeLast(f.pos)
		if f.cfg.Tracer != nil {
			f.cfg.Tracer("merge", "reason", "distance", "d", d)
		}
		return false
	}
	if now-f.lastAccepted < f.cfg.MinPointIntervalMs {
		f.buf.MergeLast(f.pos)
		if f.cfg.Tracer != nil {
			f.cfg.Tracer("merge", "reason", "interval", "dt", now-f.lastAccepted)
		}
		return false
	}
	f.accept(now)
	return true
}

// PollIdle ends the active gesture if no point has been accepted for
// IdleTimeoutMs before now. It reports whether a gesture ended.
func (f *SamplingFilter[T]) PollIdle(now int64) bool {
	f.current = now
	if f.state != Active || now-f.lastAccepted < f.cfg.IdleTimeoutMs {
		return false
	}
	f.end()
	return true
}

// End finishes the active gesture immediately, as if it had gone idle.
// It reports false if no gesture was in progress.
func (f *SamplingFilter[T]) End() bool {
	if f.state != Active {
		return false
	}
	f.end()
	return true
}

// Poll is PollIdle at the filter's clock time.
func (f *SamplingFilter[T]) Poll() bool {
	return f.PollIdle(f.clock())
}

// State returns the current gesture state.
func (f *SamplingFilter[T]) State() State {
	return f.state
}

// Buffer exposes the sample buffer for reading. Its contents stay valid
// until the next gesture starts.
func (f *SamplingFilter[T]) Buffer() *SampleBuffer[T] {
	return f.buf
}

// Count returns the number of points in the buffer.
func (f *SamplingFilter[T]) Count() int {
	return f.buf.Len()
}

// Overflow returns the buffer overflow count of the current gesture.
func (f *SamplingFilter[T]) Overflow() int {
	return f.buf.Overflow()
}

// LastAcceptedTime returns the clock reading of the last accepted point.
func (f *SamplingFilter[T]) LastAcceptedTime() int64 {
	return f.lastAccepted
}

// CurrentTime returns the clock reading of the latest submit or poll.
func (f *SamplingFilter[T]) CurrentTime() int64 {
	return f.current
}

// Config returns the filter settings.
func (f *SamplingFilter[T]) Config() FilterConfig {
	return f.cfg
}

func (f *SamplingFilter[T]) start(p Point[T], relative bool) {
	f.state = Active
	f.buf.Reset()
	f.pos = Point[T]{}
	if relative {
		f.pos = f.pos.Add(p)
	} else {
		f.pos = p
	}
	if f.cfg.Tracer != nil {
		f.cfg.Tracer("gesture start", "x", f.pos.X, "y", f.pos.Y)
	}
	f.accept(f.current)
}

func (f *SamplingFilter[T]) accept(now int64) {
	if f.buf.Push(f.pos) {
		if f.cfg.Tracer != nil {
			f.cfg.Tracer("overflow", "count", f.buf.Overflow())
		}
	}
	f.lastAccepted = now
}

func (f *SamplingFilter[T]) end() {
	f.state = Idle
	if f.cfg.Tracer != nil {
		f.cfg.Tracer("gesture end", "points", f.buf.Len(), "overflows", f.buf.Overflow())
	}
	if f.onEnd != nil {
		f.onEnd(f.buf)
	}
}
