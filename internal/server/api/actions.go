package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/ayusman/unistroke/internal/plugin"
	"github.com/ayusman/unistroke/internal/store"
)

// ActionHandler handles HTTP requests for action resources.
type ActionHandler struct {
	store   *store.Store
	rec     Recognizer
	plugins *plugin.Manager
}

// NewActionHandler creates a new ActionHandler. Template names are
// checked against rec; plugin names are checked against plugins when it
// is non-nil.
func NewActionHandler(s *store.Store, rec Recognizer, plugins *plugin.Manager) *ActionHandler {
	return &ActionHandler{store: s, rec: rec, plugins: plugins}
}

// ServeHTTP routes /api/actions and /api/actions/{id}.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := itemID(r.URL.Path, "/api/actions")
	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createActionRequest struct {
	Template   string          `json:"template"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	MinScore   int             `json:"min_score"`
	Config     json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	Template   string          `json:"template"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	MinScore   *int            `json:"min_score"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type listActionsResponse struct {
	Actions []*store.Action `json:"actions"`
}

func (h *ActionHandler) list(w http.ResponseWriter) {
	actions, err := h.store.Actions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}
	if actions == nil {
		actions = []*store.Action{}
	}
	writeJSON(w, http.StatusOK, listActionsResponse{Actions: actions})
}

func (h *ActionHandler) get(w http.ResponseWriter, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// check validates the template and plugin names, writing a 400 on failure.
func (h *ActionHandler) check(w http.ResponseWriter, template, pluginName string, minScore int) bool {
	if !slices.Contains(h.rec.Templates(), template) {
		writeError(w, http.StatusBadRequest, "Unknown template: "+template)
		return false
	}
	if h.plugins != nil {
		if _, err := h.plugins.Get(pluginName); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown plugin: "+pluginName)
			return false
		}
	}
	if minScore < 0 || minScore > 100 {
		writeError(w, http.StatusBadRequest, "min_score must be between 0 and 100")
		return false
	}
	return true
}

func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.Template == "":
		writeError(w, http.StatusBadRequest, "template is required")
		return
	case req.PluginName == "":
		writeError(w, http.StatusBadRequest, "plugin is required")
		return
	case req.ActionName == "":
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}
	if !h.check(w, req.Template, req.PluginName, req.MinScore) {
		return
	}

	action := &store.Action{
		TemplateName: req.Template,
		PluginName:   req.PluginName,
		ActionName:   req.ActionName,
		MinScore:     req.MinScore,
		Config:       req.Config,
		Enabled:      true,
	}
	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}

	var req updateActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Template != "" {
		action.TemplateName = req.Template
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.MinScore != nil {
		action.MinScore = *req.MinScore
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}
	if !h.check(w, action.TemplateName, action.PluginName, action.MinScore) {
		return
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *ActionHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Actions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
