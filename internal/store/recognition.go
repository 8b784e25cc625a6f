package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Recognition is one logged recognizer result.
type Recognition struct {
	ID            string    `json:"id"`
	TemplateName  string    `json:"template"`
	TemplateIndex int       `json:"index"`
	Score         int       `json:"score"`
	Distance      float64   `json:"distance"`
	Points        int       `json:"points"`
	Overflow      int       `json:"overflow"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecognitionRepository logs recognitions and their strokes.
type RecognitionRepository struct {
	db *sql.DB
}

// Recognitions returns the recognition repository for this store.
func (s *Store) Recognitions() *RecognitionRepository {
	return &RecognitionRepository{db: s.db}
}

// Create inserts rec and its stroke points in a single transaction.
// rec.Points is set to len(stroke).
func (r *RecognitionRepository) Create(rec *Recognition, stroke [][2]float64) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now()
	rec.Points = len(stroke)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO recognitions (id, template_name, template_index, score, distance, points, overflow, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TemplateName, rec.TemplateIndex, rec.Score, rec.Distance, rec.Points, rec.Overflow, rec.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO strokes (recognition_id, sequence, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range stroke {
		if _, err := stmt.Exec(rec.ID, i, p[0], p[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID retrieves a recognition by ID.
func (r *RecognitionRepository) GetByID(id string) (*Recognition, error) {
	row := r.db.QueryRow(
		`SELECT id, template_name, template_index, score, distance, points, overflow, created_at
		 FROM recognitions WHERE id = ?`, id)
	rec, err := scanRecognition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Recent returns up to limit recognitions, newest first.
func (r *RecognitionRepository) Recent(limit int) ([]*Recognition, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, template_name, template_index, score, distance, points, overflow, created_at
		 FROM recognitions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Recognition
	for rows.Next() {
		rec, err := scanRecognition(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Stroke returns the stored points of a recognition in order.
func (r *RecognitionRepository) Stroke(id string) ([][2]float64, error) {
	rows, err := r.db.Query(
		`SELECT x, y FROM strokes WHERE recognition_id = ? ORDER BY sequence`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stroke [][2]float64
	for rows.Next() {
		var p [2]float64
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			return nil, err
		}
		stroke = append(stroke, p)
	}
	return stroke, rows.Err()
}

// Prune deletes all but the newest keep recognitions. Strokes cascade.
func (r *RecognitionRepository) Prune(keep int) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM recognitions WHERE id NOT IN (
			SELECT id FROM recognitions ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanRecognition(s scanner) (*Recognition, error) {
	rec := &Recognition{}
	err := s.Scan(&rec.ID, &rec.TemplateName, &rec.TemplateIndex, &rec.Score,
		&rec.Distance, &rec.Points, &rec.Overflow, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
