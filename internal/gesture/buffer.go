package gesture

import "fmt"

// SampleBuffer is a fixed-capacity ring of points. Writes past capacity
// overwrite the oldest point and are counted as overflows.
type SampleBuffer[T Number] struct {
	data     []Point[T]
	pos      int
	count    int
	overflow int
}

// NewSampleBuffer allocates a buffer holding up to capacity points.
func NewSampleBuffer[T Number](capacity int) (*SampleBuffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: buffer capacity %d", ErrInvalidConfig, capacity)
	}
	return &SampleBuffer[T]{data: make([]Point[T], capacity)}, nil
}

// Cap returns the fixed capacity.
func (b *SampleBuffer[T]) Cap() int {
	return len(b.data)
}

// Len returns the number of stored points.
func (b *SampleBuffer[T]) Len() int {
	return b.count
}

// Overflow returns how many writes found the buffer full since the last Reset.
func (b *SampleBuffer[T]) Overflow() int {
	return b.overflow
}

// Reset empties the buffer and clears the overflow counter.
func (b *SampleBuffer[T]) Reset() {
	b.pos = 0
	b.count = 0
	b.overflow = 0
}

// Push appends p and reports whether it overwrote the oldest point.
func (b *SampleBuffer[T]) Push(p Point[T]) bool {
	b.data[b.pos] = p
	b.pos = (b.pos + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
		return false
	}
	b.overflow++
	return true
}

// At returns the i-th stored point, oldest first.
func (b *SampleBuffer[T]) At(i int) (Point[T], bool) {
	if i < 0 || i >= b.count {
		return Point[T]{}, false
	}
	return b.data[b.index(i)], true
}

// Last returns the most recently written point.
func (b *SampleBuffer[T]) Last() (Point[T], bool) {
	return b.At(b.count - 1)
}

// MergeLast replaces the most recent point with its mean with p.
// It does nothing on an empty buffer.
func (b *SampleBuffer[T]) MergeLast(p Point[T]) {
	if b.count == 0 {
		return
	}
	i := b.index(b.count - 1)
	b.data[i] = b.data[i].Mid(p)
}

// CopyTo copies the stored points into dst, oldest first, and returns the
// number copied.
func (b *SampleBuffer[T]) CopyTo(dst []Point[T]) int {
	n := min(len(dst), b.count)
	for i := 0; i < n; i++ {
		dst[i] = b.data[b.index(i)]
	}
	return n
}

// Points returns a copy of the stored points, oldest first.
func (b *SampleBuffer[T]) Points() []Point[T] {
	out := make([]Point[T], b.count)
	b.CopyTo(out)
	return out
}

func (b *SampleBuffer[T]) index(i int) int {
	start := (b.pos - b.count + len(b.data)) % len(b.data)
	return (start + i) % len(b.data)
}
