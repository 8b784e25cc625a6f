package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/unistroke/internal/plugin"
	"github.com/ayusman/unistroke/internal/store"
)

func newActionHandler(t *testing.T) (*ActionHandler, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	mgr := plugin.NewManager(t.TempDir())
	mgr.Register(&plugin.Plugin{Manifest: plugin.Manifest{Name: "notify", Executable: "notify.sh"}})
	return NewActionHandler(s, newFakeRecognizer("line", "circle"), mgr), s
}

func TestActionHandler_CRUD(t *testing.T) {
	h, s := newActionHandler(t)

	rec := do(t, h, http.MethodPost, "/api/actions", map[string]any{
		"template":  "circle",
		"plugin":    "notify",
		"action":    "send",
		"min_score": 80,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[store.Action](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "circle", created.TemplateName)
	assert.Equal(t, 80, created.MinScore)
	assert.True(t, created.Enabled)

	rec = do(t, h, http.MethodGet, "/api/actions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listActionsResponse](t, rec).Actions, 1)

	rec = do(t, h, http.MethodGet, "/api/actions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "send", decode[store.Action](t, rec).ActionName)

	rec = do(t, h, http.MethodPut, "/api/actions/"+created.ID, map[string]any{
		"template": "line",
		"enabled":  false,
		"config":   map[string]string{"title": "hi"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[store.Action](t, rec)
	assert.Equal(t, "line", updated.TemplateName)
	assert.False(t, updated.Enabled)
	assert.JSONEq(t, `{"title":"hi"}`, string(updated.Config))

	stored, err := s.Actions().GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "line", stored.TemplateName)

	rec = do(t, h, http.MethodDelete, "/api/actions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/actions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/actions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActionHandler_Validation(t *testing.T) {
	h, _ := newActionHandler(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing template", map[string]any{"plugin": "notify", "action": "send"}},
		{"missing plugin", map[string]any{"template": "line", "action": "send"}},
		{"missing action", map[string]any{"template": "line", "plugin": "notify"}},
		{"unknown template", map[string]any{"template": "star", "plugin": "notify", "action": "send"}},
		{"unknown plugin", map[string]any{"template": "line", "plugin": "nope", "action": "send"}},
		{"score too high", map[string]any{"template": "line", "plugin": "notify", "action": "send", "min_score": 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/actions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}

	rec := do(t, h, http.MethodPut, "/api/actions/missing", map[string]any{"enabled": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodPatch, "/api/actions", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
