// Package plugin runs external programs in response to recognized strokes.
//
// A plugin is a directory holding a plugin.json manifest and an executable.
// The executable reads one JSON Request on stdin and writes one JSON
// Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin and the actions it offers.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Request is sent to a plugin when a bound stroke is recognized.
type Request struct {
	Action   string          `json:"action"`
	Gesture  string          `json:"gesture"`
	Score    int             `json:"score"`
	Distance float64         `json:"distance"`
	Points   [][2]float64    `json:"points,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Response is the plugin's reply.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the plugin declares action. A manifest with no
// actions accepts any.
func (p *Plugin) Supports(action string) bool {
	return len(p.Manifest.Actions) == 0 || slices.Contains(p.Manifest.Actions, action)
}
