package plugin

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers plugins under a directory.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a Manager for pluginDir.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory. Each subdirectory with a readable
// plugin.json becomes a plugin; broken manifests are logged and skipped.
// A missing directory is not an error.
func (m *Manager) Discover() error {
	found := make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		m.replace(found)
		return nil
	}
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.pluginDir, entry.Name())
		p, err := loadPlugin(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			}
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.replace(found)
	return nil
}

func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, "plugin.json"))
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	if manifest.Name == "" {
		manifest.Name = filepath.Base(dir)
	}
	if manifest.Executable == "" {
		return nil, errors.New("manifest has no executable")
	}
	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

func (m *Manager) replace(plugins map[string]*Plugin) {
	m.mu.Lock()
	m.plugins = plugins
	m.mu.Unlock()
}

// Register adds a plugin directly, replacing any with the same name.
func (m *Manager) Register(p *Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins[p.Manifest.Name] = p
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return p, nil
}

// List returns all plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
