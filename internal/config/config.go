// Package config loads the daemon's JSON settings file. Every field is
// optional; the Get methods return defaults for fields left out.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/input"
)

// Input source kinds.
const (
	InputNone   = "none"
	InputMouse  = "mouse"
	InputSerial = "serial"
	InputCamera = "camera"
)

const maxFileSize = 1 * 1024 * 1024

// Config mirrors the settings file.
type Config struct {
	ResampledLength  *int     `json:"resampled_length,omitempty"`
	Capacity         *int     `json:"capacity,omitempty"`
	IdleTimeout      *string  `json:"idle_timeout,omitempty"`       // duration string like "1s"
	MinPointInterval *string  `json:"min_point_interval,omitempty"` // duration string like "10ms"
	MinDistance      *float64 `json:"min_distance,omitempty"`
	SquareSize       *float64 `json:"square_size,omitempty"`
	AngleRange       *float64 `json:"angle_range_deg,omitempty"`
	AnglePrecision   *float64 `json:"angle_precision_deg,omitempty"`
	MinScore         *int     `json:"min_score,omitempty"`

	Templates *string `json:"templates,omitempty"`
	Database  *string `json:"database,omitempty"`
	PluginDir *string `json:"plugin_dir,omitempty"`
	Listen    *string `json:"listen,omitempty"`
	Tray      *bool   `json:"tray,omitempty"`
	Debug     *bool   `json:"debug,omitempty"`

	Input      *string            `json:"input,omitempty"`
	SerialPort *string            `json:"serial_port,omitempty"`
	Serial     *input.PortOptions `json:"serial,omitempty"`
	Camera     *CameraConfig      `json:"camera,omitempty"`
}

// CameraConfig selects the camera and tunes the bright spot tracker.
type CameraConfig struct {
	Device        int     `json:"device"`
	FPS           int     `json:"fps"`
	MinBrightness float64 `json:"min_brightness"`
	Mirror        *bool   `json:"mirror,omitempty"`
}

// Load reads and validates a settings file. The file must have a .json
// extension and be at most 1 MiB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that are set.
func (c *Config) Validate() error {
	if c.ResampledLength != nil && (*c.ResampledLength < 4 || *c.ResampledLength%2 != 0) {
		return fmt.Errorf("resampled_length must be even and at least 4, got %d", *c.ResampledLength)
	}
	if c.Capacity != nil && *c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", *c.Capacity)
	}
	for name, s := range map[string]*string{"idle_timeout": c.IdleTimeout, "min_point_interval": c.MinPointInterval} {
		if s == nil || *s == "" {
			continue
		}
		d, err := time.ParseDuration(*s)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *s, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, *s)
		}
	}
	if c.MinDistance != nil && *c.MinDistance < 0 {
		return fmt.Errorf("min_distance must not be negative, got %f", *c.MinDistance)
	}
	if c.SquareSize != nil && *c.SquareSize <= 0 {
		return fmt.Errorf("square_size must be positive, got %f", *c.SquareSize)
	}
	if c.AnglePrecision != nil && *c.AnglePrecision <= 0 {
		return fmt.Errorf("angle_precision_deg must be positive, got %f", *c.AnglePrecision)
	}
	if c.Input != nil {
		switch *c.Input {
		case InputNone, InputMouse, InputSerial, InputCamera:
		default:
			return fmt.Errorf("unknown input %q", *c.Input)
		}
		if *c.Input == InputSerial && c.GetSerialPort() == "" {
			return fmt.Errorf("serial input needs serial_port")
		}
	}
	if c.Serial != nil {
		if _, err := c.Serial.Normalize(); err != nil {
			return err
		}
	}
	return nil
}

// GetResampledLength returns resampled_length or 64.
func (c *Config) GetResampledLength() int {
	if c.ResampledLength == nil {
		return 64
	}
	return *c.ResampledLength
}

// FilterConfig returns the sampling filter settings.
func (c *Config) FilterConfig() gesture.FilterConfig {
	f := gesture.DefaultFilterConfig(c.GetResampledLength())
	if c.Capacity != nil {
		f.Capacity = *c.Capacity
	}
	if d := parseDuration(c.IdleTimeout); d > 0 {
		f.IdleTimeoutMs = d.Milliseconds()
	}
	f.MinPointIntervalMs = parseDuration(c.MinPointInterval).Milliseconds()
	if c.MinDistance != nil {
		f.MinDistance = *c.MinDistance
	}
	return f
}

// RecognizerConfig returns the recognizer settings for templateCapacity
// slots.
func (c *Config) RecognizerConfig(templateCapacity int) gesture.RecognizerConfig {
	r := gesture.DefaultRecognizerConfig(c.GetResampledLength(), templateCapacity)
	if c.SquareSize != nil {
		r.SquareSize = *c.SquareSize
	}
	if c.AngleRange != nil {
		r.AngleRange = *c.AngleRange
	}
	if c.AnglePrecision != nil {
		r.AnglePrecision = *c.AnglePrecision
	}
	return r
}

// GetMinScore returns min_score or 0.
func (c *Config) GetMinScore() int {
	if c.MinScore == nil {
		return 0
	}
	return *c.MinScore
}

// GetTemplates returns the catalog path, or "" for the built-in set.
func (c *Config) GetTemplates() string {
	return stringOr(c.Templates, "")
}

// GetDatabase returns the database path or "unistroke.db".
func (c *Config) GetDatabase() string {
	return stringOr(c.Database, "unistroke.db")
}

// GetPluginDir returns the plugin directory or "plugins".
func (c *Config) GetPluginDir() string {
	return stringOr(c.PluginDir, "plugins")
}

// GetListen returns the HTTP listen address or "127.0.0.1:8765".
func (c *Config) GetListen() string {
	return stringOr(c.Listen, "127.0.0.1:8765")
}

// GetTray returns whether to show the tray icon (default true).
func (c *Config) GetTray() bool {
	return c.Tray == nil || *c.Tray
}

// GetDebug returns whether trace logging is on.
func (c *Config) GetDebug() bool {
	return c.Debug != nil && *c.Debug
}

// GetInput returns the input kind, mouse by default.
func (c *Config) GetInput() string {
	return stringOr(c.Input, InputMouse)
}

// GetSerialPort returns the serial device path.
func (c *Config) GetSerialPort() string {
	return stringOr(c.SerialPort, "")
}

// GetSerial returns the serial line options.
func (c *Config) GetSerial() input.PortOptions {
	if c.Serial == nil {
		return input.PortOptions{}
	}
	return *c.Serial
}

// GetCamera returns the camera settings with defaults filled in.
func (c *Config) GetCamera() CameraConfig {
	cam := CameraConfig{FPS: 30, MinBrightness: 220}
	if c.Camera == nil {
		return cam
	}
	cam.Device = c.Camera.Device
	if c.Camera.FPS > 0 {
		cam.FPS = c.Camera.FPS
	}
	if c.Camera.MinBrightness > 0 {
		cam.MinBrightness = c.Camera.MinBrightness
	}
	cam.Mirror = c.Camera.Mirror
	return cam
}

// MirrorEnabled reports whether the camera image is mirrored (default true).
func (cc CameraConfig) MirrorEnabled() bool {
	return cc.Mirror == nil || *cc.Mirror
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func parseDuration(s *string) time.Duration {
	if s == nil || *s == "" {
		return 0
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return 0
	}
	return d
}
