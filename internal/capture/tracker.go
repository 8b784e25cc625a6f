package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// TrackerConfig tunes the bright spot search.
type TrackerConfig struct {
	// BlurSize is the Gaussian kernel size; it is forced odd.
	BlurSize int `json:"blur_size"`
	// MinBrightness is the gray level (0-255) a spot must reach.
	MinBrightness float64 `json:"min_brightness"`
	// Mirror flips x so that a front camera behaves like a mirror.
	Mirror bool `json:"mirror"`
}

// DefaultTrackerConfig returns settings for a torch in a normally lit room.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{BlurSize: 11, MinBrightness: 220, Mirror: true}
}

// PointerTracker locates the brightest blob in a frame.
type PointerTracker struct {
	cfg     TrackerConfig
	gray    gocv.Mat
	blurred gocv.Mat
	mu      sync.Mutex
}

// NewPointerTracker allocates a tracker. Call Close to release its buffers.
func NewPointerTracker(cfg TrackerConfig) *PointerTracker {
	if cfg.BlurSize <= 0 {
		cfg.BlurSize = 1
	}
	if cfg.BlurSize%2 == 0 {
		cfg.BlurSize++
	}
	return &PointerTracker{
		cfg:     cfg,
		gray:    gocv.NewMat(),
		blurred: gocv.NewMat(),
	}
}

// Track returns the pointer position in frame pixels, or false when no
// spot is bright enough.
func (t *PointerTracker) Track(frame *gocv.Mat) (image.Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if frame == nil || frame.Empty() {
		return image.Point{}, false
	}

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &t.gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&t.gray)
	}
	// Blurring first keeps single hot pixels from winning.
	k := t.cfg.BlurSize
	gocv.GaussianBlur(t.gray, &t.blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(t.blurred)
	if float64(maxVal) < t.cfg.MinBrightness {
		return image.Point{}, false
	}
	if t.cfg.Mirror {
		maxLoc.X = t.blurred.Cols() - 1 - maxLoc.X
	}
	return maxLoc, true
}

// Close releases the tracker's buffers.
func (t *PointerTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gray.Close()
	t.blurred.Close()
}
