package capture

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/unistroke/internal/input"
	"gocv.io/x/gocv"
)

// CameraSource feeds tracked pointer positions as absolute input events.
type CameraSource struct {
	camera  Camera
	tracker *PointerTracker
}

// NewCameraSource pairs a camera with a tracker. The source owns both
// once Events is called.
func NewCameraSource(camera Camera, tracker *PointerTracker) *CameraSource {
	return &CameraSource{camera: camera, tracker: tracker}
}

// Events opens the camera and reads frames at its FPS until ctx is done
// or the camera runs out of frames.
func (s *CameraSource) Events(ctx context.Context) (<-chan input.Event, error) {
	if err := s.camera.Open(); err != nil {
		return nil, err
	}

	fps := s.camera.FPS()
	if fps <= 0 {
		fps = DefaultCameraConfig().FPS
	}
	out := make(chan input.Event, 16)

	go func() {
		defer close(out)
		defer s.camera.Close()
		defer s.tracker.Close()
		frame := gocv.NewMat()
		defer frame.Close()

		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if err := s.camera.Read(&frame); err != nil {
				if errors.Is(err, ErrNoMoreFrames) || errors.Is(err, ErrCameraNotOpen) {
					return
				}
				log.Printf("Camera read failed: %v", err)
				continue
			}
			p, ok := s.tracker.Track(&frame)
			if !ok {
				continue
			}
			select {
			case out <- input.Event{X: float64(p.X), Y: float64(p.Y)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
