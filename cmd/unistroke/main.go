package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/capture"
	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/input"
	"github.com/ayusman/unistroke/internal/server"
	"github.com/ayusman/unistroke/internal/store"
	"github.com/ayusman/unistroke/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON settings file")
	listen := flag.String("listen", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	pluginDir := flag.String("plugins", "", "plugin directory")
	templates := flag.String("templates", "", "template catalog file (default: built-in set)")
	source := flag.String("input", "", "input source: mouse, serial, camera or none")
	serialPort := flag.String("serial", "", "serial device for -input serial")
	noTray := flag.Bool("no-tray", false, "run without the tray icon")
	debug := flag.Bool("debug", false, "log filter and recognizer traces")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags override the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = listen
		case "db":
			cfg.Database = dbPath
		case "plugins":
			cfg.PluginDir = pluginDir
		case "templates":
			cfg.Templates = templates
		case "input":
			cfg.Input = source
		case "serial":
			cfg.SerialPort = serialPort
		case "no-tray":
			showTray := !*noTray
			cfg.Tray = &showTray
		case "debug":
			cfg.Debug = debug
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	fmt.Println("Unistroke - Stroke Gesture Recognition")

	if dir := filepath.Dir(cfg.GetDatabase()); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	st, err := store.New(cfg.GetDatabase())
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	cat := catalog.Builtin()
	if path := cfg.GetTemplates(); path != "" {
		if cat, err = catalog.Load(path); err != nil {
			return err
		}
	}

	a, err := app.New(app.Config{
		ResampledLength: cfg.GetResampledLength(),
		Filter:          cfg.FilterConfig(),
		Recognizer:      cfg.RecognizerConfig(0),
		Catalog:         cat,
		MinScore:        cfg.GetMinScore(),
		Store:           st,
		PluginDir:       cfg.GetPluginDir(),
		Debug:           cfg.GetDebug(),
	})
	if err != nil {
		return fmt.Errorf("failed to start recognizer: %w", err)
	}
	defer a.Close()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	if src != nil {
		if err := a.Start(src); err != nil {
			return err
		}
		log.Printf("Reading strokes from %s input", cfg.GetInput())
	}

	srv := server.New(server.Config{App: a, Store: st, StaticDir: findWebDir()})
	addr := cfg.GetListen()
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.GetTray() {
		<-ctx.Done()
		return nil
	}

	t := tray.New()
	t.SetTemplates(a.Templates())
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() { openBrowser("http://" + addr) })
	a.OnResult(t.SetResult)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	// Blocks on the main goroutine until Quit.
	t.Run()
	return nil
}

// newSource returns the configured input, or nil for "none".
func newSource(cfg *config.Config) (input.Source, error) {
	switch cfg.GetInput() {
	case config.InputNone:
		return nil, nil
	case config.InputSerial:
		return input.NewSerialSource(cfg.GetSerialPort(), cfg.GetSerial()), nil
	case config.InputCamera:
		cc := cfg.GetCamera()
		cam := capture.NewCamera(capture.CameraConfig{DeviceID: cc.Device, FPS: cc.FPS})
		tcfg := capture.DefaultTrackerConfig()
		tcfg.MinBrightness = cc.MinBrightness
		tcfg.Mirror = cc.MirrorEnabled()
		return capture.NewCameraSource(cam, capture.NewPointerTracker(tcfg)), nil
	default:
		return input.NewMouseSource(), nil
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v (visit %s)", err, url)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.unistroke/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".unistroke", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
