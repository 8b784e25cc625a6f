// Package server provides the HTTP server for the unistroke recognizer.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/server/api"
	"github.com/ayusman/unistroke/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	Store     *store.Store
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHub
	start  time.Time
}

// New creates a new Server with the given configuration. When an App is
// configured its results are published on /api/events.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventsHub(),
		start:  time.Now(),
	}
	if config.App != nil {
		config.App.OnResult(s.events.Publish)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/events", s.events)

	if a := s.config.App; a != nil {
		s.mux.Handle("/api/templates", api.NewTemplateHandler(a))
		recognize := api.NewRecognizeHandler(a)
		s.mux.Handle("/api/recognize", recognize)
		s.mux.Handle("/api/result", recognize)
	}

	if s.config.Store != nil {
		recognitions := api.NewRecognitionHandler(s.config.Store)
		s.mux.Handle("/api/recognitions", recognitions)
		s.mux.Handle("/api/recognitions/", recognitions)

		if s.config.App != nil {
			plugins := s.config.App.PluginManager()
			if plugins.PluginDir() == "" {
				plugins = nil
			}
			actions := api.NewActionHandler(s.config.Store, s.config.App, plugins)
			s.mux.Handle("/api/actions", actions)
			s.mux.Handle("/api/actions/", actions)
		}
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// Events returns the hub broadcasting recognition results.
func (s *Server) Events() *EventsHub {
	return s.events
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if a := s.config.App; a != nil {
		response["templates"] = len(a.Templates())
		response["enabled"] = a.IsEnabled()
		response["clients"] = s.events.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
