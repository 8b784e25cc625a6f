// Package capture turns a camera into a pointer input by following the
// brightest spot in each frame, such as an LED or a phone torch.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrCameraNotOpen is returned when reading from a closed camera.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrNoMoreFrames is returned by cameras that have run out of frames.
	ErrNoMoreFrames = errors.New("no more frames")
)

// CameraConfig selects the device and capture format.
type CameraConfig struct {
	DeviceID int `json:"device_id"`
	Width    int `json:"width"`
	Height   int `json:"height"`
	FPS      int `json:"fps"`
}

// DefaultCameraConfig returns 640x480 at 30 fps on the first device.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Width: 640, Height: 480, FPS: 30}
}

// Camera is a frame source.
type Camera interface {
	Open() error
	Close() error
	// Read decodes the next frame into dst, reusing its storage.
	Read(dst *gocv.Mat) error
	FPS() int
	IsOpen() bool
}

type deviceCamera struct {
	cfg     CameraConfig
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// NewCamera creates a Camera for a local capture device. Zero fields in
// cfg take their DefaultCameraConfig values.
func NewCamera(cfg CameraConfig) Camera {
	def := DefaultCameraConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	return &deviceCamera{cfg: cfg}
}

func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}
	capture, err := gocv.OpenVideoCapture(c.cfg.DeviceID)
	if err != nil {
		return err
	}
	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.cfg.FPS))
	c.capture = capture
	return nil
}

func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}

func (c *deviceCamera) Read(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return ErrCameraNotOpen
	}
	if ok := c.capture.Read(dst); !ok {
		return errors.New("failed to read frame from camera")
	}
	if dst.Empty() {
		return errors.New("captured frame is empty")
	}
	return nil
}

func (c *deviceCamera) FPS() int {
	return c.cfg.FPS
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}
