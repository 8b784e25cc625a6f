package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back prepared frames.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	fps     int
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a MockCamera. With loop set playback restarts
// after the last frame; otherwise Read returns ErrNoMoreFrames.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{frames: frames, loop: loop, fps: 100}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) Read(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrCameraNotOpen
	}
	if c.index >= len(c.frames) {
		if !c.loop || len(c.frames) == 0 {
			return ErrNoMoreFrames
		}
		c.index = 0
	}
	c.frames[c.index].CopyTo(dst)
	c.index++
	return nil
}

// SetFPS sets the playback rate reported to readers.
func (c *MockCamera) SetFPS(fps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fps > 0 {
		c.fps = fps
	}
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
