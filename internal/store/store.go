// Package store handles SQLite persistence of the game history log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"typerush/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for finished-game records. The history is
// append-only for gameplay purposes; reads serve the history views.
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
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			duration_s INTEGER NOT NULL,
			score INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			wpm REAL NOT NULL,
			phrases INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			best_combo INTEGER NOT NULL,
			quests_completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame appends a finished game to the history log.
func (s *Store) InsertGame(ctx context.Context, rec model.GameRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, started_at, ended_at, difficulty, duration_s, score, accuracy, wpm, phrases, misses, best_combo, quests_completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Difficulty),
		rec.DurationSeconds,
		rec.Score,
		rec.Accuracy,
		rec.WPM,
		rec.Phrases,
		rec.Misses,
		rec.BestCombo,
		rec.QuestsCompleted,
	)
	return err
}

// ListGames returns history records filtered by the history config,
// ordered oldest first. Last limits to the most recent N games.
func (s *Store) ListGames(ctx context.Context, cfg model.HistoryConfig) ([]model.GameRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, cfg.Difficulty)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, difficulty, duration_s, score, accuracy, wpm, phrases, misses, best_combo, quests_completed
		FROM games
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.GameRecord
	for rows.Next() {
		var rec model.GameRecord
		var startedAt, endedAt, difficulty string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &difficulty, &rec.DurationSeconds,
			&rec.Score, &rec.Accuracy, &rec.WPM, &rec.Phrases, &rec.Misses, &rec.BestCombo, &rec.QuestsCompleted); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rec.Difficulty = model.Difficulty(difficulty)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}
