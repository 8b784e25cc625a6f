package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action binds a template name to a plugin action.
type Action struct {
	ID           string          `json:"id"`
	TemplateName string          `json:"template"`
	PluginName   string          `json:"plugin"`
	ActionName   string          `json:"action"`
	MinScore     int             `json:"min_score"`
	Config       json.RawMessage `json:"config,omitempty"`
	Enabled      bool            `json:"enabled"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ActionRepository provides CRUD operations for actions.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

const actionColumns = `id, template_name, plugin_name, action_name, min_score, config, enabled, created_at`

// Create inserts a, assigning an ID if it has none.
func (r *ActionRepository) Create(a *Action) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO actions (`+actionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TemplateName, a.PluginName, a.ActionName, a.MinScore, configText(a.Config), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	a, err := scanAction(r.db.QueryRow(`SELECT `+actionColumns+` FROM actions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ForTemplate returns the enabled actions bound to a template name.
func (r *ActionRepository) ForTemplate(name string) ([]*Action, error) {
	return r.query(`SELECT `+actionColumns+` FROM actions
		WHERE template_name = ? AND enabled = 1 ORDER BY created_at, rowid`, name)
}

// List retrieves all actions, newest first.
func (r *ActionRepository) List() ([]*Action, error) {
	return r.query(`SELECT ` + actionColumns + ` FROM actions ORDER BY created_at DESC, rowid DESC`)
}

// Update updates an existing action.
func (r *ActionRepository) Update(a *Action) error {
	return execOne(r.db,
		`UPDATE actions SET template_name = ?, plugin_name = ?, action_name = ?, min_score = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.TemplateName, a.PluginName, a.ActionName, a.MinScore, configText(a.Config), a.Enabled, a.ID,
	)
}

// Delete removes an action by its ID.
func (r *ActionRepository) Delete(id string) error {
	return execOne(r.db, `DELETE FROM actions WHERE id = ?`, id)
}

func (r *ActionRepository) query(q string, args ...any) ([]*Action, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func scanAction(s scanner) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int
	err := s.Scan(&a.ID, &a.TemplateName, &a.PluginName, &a.ActionName, &a.MinScore, &config, &enabled, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

func configText(c json.RawMessage) string {
	if len(c) == 0 {
		return "{}"
	}
	return string(c)
}
