// Package storage implements the conversation-state store on SQLite.
// The bot works fine with the in-memory store; this backend exists for
// deployments that restart often and want pending selections to
// survive a restart.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"faturabot/internal/state"

	_ "modernc.org/sqlite"
)

type SQLiteStateStore struct {
	db *sql.DB
}

var _ state.Store = (*SQLiteStateStore)(nil)

func NewSQLiteStateStore(dbPath string) (*SQLiteStateStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStateStore{db: db}, nil
}

func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}

// Get returns the pending selection for a user. Read failures are
// logged and reported as "no pending state": the bot then treats the
// message as a fresh command, which is the safe degradation.
func (s *SQLiteStateStore) Get(userID int64) (state.Pending, bool) {
	var raw string
	err := s.db.QueryRow(
		`SELECT months FROM pending_selections WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return state.Pending{}, false
	}
	if err != nil {
		slog.Error("read pending selection", "user_id", userID, "error", err)
		return state.Pending{}, false
	}
	var months []string
	if err := json.Unmarshal([]byte(raw), &months); err != nil {
		slog.Error("decode pending selection", "user_id", userID, "error", err)
		return state.Pending{}, false
	}
	return state.Pending{Months: months}, true
}

func (s *SQLiteStateStore) Set(userID int64, p state.Pending) {
	raw, err := json.Marshal(p.Months)
	if err != nil {
		slog.Error("encode pending selection", "user_id", userID, "error", err)
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO pending_selections (user_id, months, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET months = excluded.months, updated_at = CURRENT_TIMESTAMP`,
		userID, string(raw),
	)
	if err != nil {
		slog.Error("write pending selection", "user_id", userID, "error", err)
	}
}

func (s *SQLiteStateStore) Clear(userID int64) {
	if _, err := s.db.Exec(`DELETE FROM pending_selections WHERE user_id = ?`, userID); err != nil {
		slog.Error("clear pending selection", "user_id", userID, "error", err)
	}
}
