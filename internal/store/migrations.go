package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per recognized stroke
		`CREATE TABLE IF NOT EXISTS recognitions (
			id TEXT PRIMARY KEY,
			template_name TEXT NOT NULL,
			template_index INTEGER NOT NULL,
			score INTEGER NOT NULL,
			distance REAL NOT NULL,
			points INTEGER NOT NULL,
			overflow INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sampled points of each recognized stroke
		`CREATE TABLE IF NOT EXISTS strokes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recognition_id TEXT NOT NULL REFERENCES recognitions(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL
		)`,

		// Plugin actions run when a template is recognized
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			template_name TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			min_score INTEGER NOT NULL DEFAULT 0,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recognitions_created_at ON recognitions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_strokes_recognition_id ON strokes(recognition_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_template_name ON actions(template_name)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}
