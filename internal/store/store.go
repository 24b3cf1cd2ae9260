// Package store handles SQLite persistence of display settings.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/speed"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Setting keys.
const (
	KeyMetric    = "speed-metric"
	KeyShowSpeed = "show-speed"
	KeyMirror    = "mirror"
	KeyClickable = "clickable"
)

// Store wraps SQLite access for persisted settings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SavePrefs upserts every set preference in one transaction.
func (s *Store) SavePrefs(ctx context.Context, prefs model.DisplayPrefs) (err error) {
	rows := prefRows(prefs)
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row[0], row[1], now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func prefRows(p model.DisplayPrefs) [][2]string {
	var rows [][2]string
	if p.Metric != nil {
		rows = append(rows, [2]string{KeyMetric, string(*p.Metric)})
	}
	if p.ShowSpeed != nil {
		rows = append(rows, [2]string{KeyShowSpeed, strconv.FormatBool(*p.ShowSpeed)})
	}
	if p.Mirror != nil {
		rows = append(rows, [2]string{KeyMirror, strconv.FormatBool(*p.Mirror)})
	}
	if p.Clickable != nil {
		rows = append(rows, [2]string{KeyClickable, strconv.FormatBool(*p.Clickable)})
	}
	return rows
}

// LoadPrefs reads the persisted preferences. Unknown keys are ignored; a
// malformed value is reported rather than silently dropped.
func (s *Store) LoadPrefs(ctx context.Context) (model.DisplayPrefs, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return model.DisplayPrefs{}, err
	}
	var prefs model.DisplayPrefs
	for _, row := range rows {
		switch row.Key {
		case KeyMetric:
			m, ok := speed.NormalizeMetric(row.Value)
			if !ok {
				return model.DisplayPrefs{}, fmt.Errorf("invalid stored %s %q", row.Key, row.Value)
			}
			prefs.Metric = &m
		case KeyShowSpeed:
			v, err := parseBool(row)
			if err != nil {
				return model.DisplayPrefs{}, err
			}
			prefs.ShowSpeed = &v
		case KeyMirror:
			v, err := parseBool(row)
			if err != nil {
				return model.DisplayPrefs{}, err
			}
			prefs.Mirror = &v
		case KeyClickable:
			v, err := parseBool(row)
			if err != nil {
				return model.DisplayPrefs{}, err
			}
			prefs.Clickable = &v
		}
	}
	return prefs, nil
}

func parseBool(row model.SettingRow) (bool, error) {
	v, err := strconv.ParseBool(row.Value)
	if err != nil {
		return false, fmt.Errorf("invalid stored %s %q: %w", row.Key, row.Value, err)
	}
	return v, nil
}

// List returns every stored setting ordered by key.
func (s *Store) List(ctx context.Context) ([]model.SettingRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SettingRow
	for rows.Next() {
		var row model.SettingRow
		var updatedAt string
		if err := rows.Scan(&row.Key, &row.Value, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, err
		}
		row.UpdatedAt = parsed
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Reset deletes every stored setting.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings`)
	return err
}
