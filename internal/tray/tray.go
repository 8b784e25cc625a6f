// Package tray provides a system tray menu for the unistroke recognizer.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/unistroke/internal/app"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	last       string
	templates  []string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		last:    lastLabel(app.Result{}, false),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetTemplates sets the names listed under the Templates submenu. It must
// be called before Run.
func (t *Tray) SetTemplates(names []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.templates = append([]string(nil), names...)
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops a running tray.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Unistroke")
	systray.SetTooltip("Unistroke gesture recognition")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleLabel(t.enabled), "Toggle stroke recognition")
	systray.AddSeparator()

	t.menuLast = systray.AddMenuItem(t.last, "Last recognized stroke")
	t.menuLast.Disable()

	menuTemplates := systray.AddMenuItem(fmt.Sprintf("Templates (%d)", len(t.templates)), "Loaded templates")
	for _, name := range t.templates {
		menuTemplates.AddSubMenuItem(name, "").Disable()
	}
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Unistroke")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleLabel(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetResult updates the last stroke display. It has the signature of an
// app result listener.
func (t *Tray) SetResult(res app.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = lastLabel(res, true)
	if t.menuLast != nil {
		t.menuLast.SetTitle(t.last)
	}
}

// LastLabel returns the text of the last stroke menu item.
func (t *Tray) LastLabel() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleLabel(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastLabel(res app.Result, seen bool) string {
	switch {
	case !seen:
		return "Last: none"
	case !res.Matched():
		return "Last: unrecognized"
	default:
		return fmt.Sprintf("Last: %s (%d%%)", res.Name, res.Score)
	}
}
