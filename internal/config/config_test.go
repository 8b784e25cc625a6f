package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/unistroke/internal/gesture"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, "unistroke.json", `{
		"resampled_length": 32,
		"capacity": 40,
		"idle_timeout": "750ms",
		"min_point_interval": "10ms",
		"min_distance": 2.5,
		"square_size": 250,
		"angle_range_deg": 30,
		"angle_precision_deg": 1,
		"min_score": 80,
		"database": "/tmp/u.db",
		"input": "serial",
		"serial_port": "/dev/ttyUSB0",
		"serial": {"baud_rate": 9600, "parity": "E"},
		"camera": {"device": 1, "mirror": false},
		"tray": false,
		"debug": true
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f := cfg.FilterConfig()
	want := gesture.FilterConfig{Capacity: 40, IdleTimeoutMs: 750, MinPointIntervalMs: 10, MinDistance: 2.5}
	if f.Capacity != want.Capacity || f.IdleTimeoutMs != want.IdleTimeoutMs ||
		f.MinPointIntervalMs != want.MinPointIntervalMs || f.MinDistance != want.MinDistance {
		t.Errorf("FilterConfig() = %+v, want %+v", f, want)
	}

	r := cfg.RecognizerConfig(9)
	if r.ResampledLength != 32 || r.TemplateCapacity != 9 || r.SquareSize != 250 ||
		r.AngleRange != 30 || r.AnglePrecision != 1 {
		t.Errorf("RecognizerConfig() = %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("RecognizerConfig().Validate() = %v", err)
	}

	if cfg.GetMinScore() != 80 || cfg.GetDatabase() != "/tmp/u.db" || cfg.GetInput() != InputSerial {
		t.Errorf("getters = %d %q %q", cfg.GetMinScore(), cfg.GetDatabase(), cfg.GetInput())
	}
	if cfg.GetSerial().BaudRate != 9600 || cfg.GetSerialPort() != "/dev/ttyUSB0" {
		t.Errorf("serial = %+v %q", cfg.GetSerial(), cfg.GetSerialPort())
	}
	cam := cfg.GetCamera()
	if cam.Device != 1 || cam.FPS != 30 || cam.MirrorEnabled() {
		t.Errorf("GetCamera() = %+v mirror=%v", cam, cam.MirrorEnabled())
	}
	if cfg.GetTray() || !cfg.GetDebug() {
		t.Errorf("tray=%v debug=%v", cfg.GetTray(), cfg.GetDebug())
	}
}

func TestLoad_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "empty.json", `{}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f := cfg.FilterConfig()
	if f.Capacity != 48 || f.IdleTimeoutMs != 1000 || f.MinPointIntervalMs != 0 || f.MinDistance != 0 {
		t.Errorf("FilterConfig() = %+v, want defaults", f)
	}
	r := cfg.RecognizerConfig(5)
	if r.SquareSize != 4096 || r.AngleRange != 45 || r.AnglePrecision != 2 {
		t.Errorf("RecognizerConfig() = %+v, want defaults", r)
	}
	if cfg.GetInput() != InputMouse || cfg.GetListen() != "127.0.0.1:8765" || cfg.GetPluginDir() != "plugins" {
		t.Errorf("defaults: input=%q listen=%q plugins=%q", cfg.GetInput(), cfg.GetListen(), cfg.GetPluginDir())
	}
	if !cfg.GetTray() || cfg.GetDebug() || cfg.GetTemplates() != "" {
		t.Error("unexpected boolean or template defaults")
	}
	if !cfg.GetCamera().MirrorEnabled() {
		t.Error("camera mirror should default to on")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{name: "wrong extension", file: "c.yaml", body: `{}`, wantErr: ".json extension"},
		{name: "bad json", file: "c.json", body: `{`, wantErr: "parse"},
		{name: "odd length", file: "c.json", body: `{"resampled_length": 31}`, wantErr: "resampled_length"},
		{name: "bad duration", file: "c.json", body: `{"idle_timeout": "soon"}`, wantErr: "idle_timeout"},
		{name: "negative interval", file: "c.json", body: `{"min_point_interval": "-5ms"}`, wantErr: "min_point_interval"},
		{name: "zero precision", file: "c.json", body: `{"angle_precision_deg": 0}`, wantErr: "angle_precision"},
		{name: "unknown input", file: "c.json", body: `{"input": "joystick"}`, wantErr: "unknown input"},
		{name: "serial without port", file: "c.json", body: `{"input": "serial"}`, wantErr: "serial_port"},
		{name: "bad parity", file: "c.json", body: `{"serial": {"parity": "Q"}}`, wantErr: "parity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TooLarge(t *testing.T) {
	body := `{"templates": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err := Load(writeConfig(t, "big.json", body))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("Load() error = %v, want too large", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
