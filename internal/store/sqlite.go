package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/planline-ai/event-pipeline/internal/model"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS users (
    chat_id   TEXT PRIMARY KEY,
    time_zone TEXT NOT NULL DEFAULT '',
    locale    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    uid         TEXT NOT NULL,
    chat_id     TEXT NOT NULL,
    event_date  TEXT NOT NULL,
    start_time  TEXT NOT NULL,
    stop_time   TEXT,
    description TEXT NOT NULL,
    recurrent   TEXT NOT NULL DEFAULT 'never',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_chat ON events(chat_id, event_date);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date, start_time);
`

// SQLite is the Gateway implementation backed by modernc.org/sqlite.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and initializes) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveEvent inserts a confirmed event and returns its identifier.
func (s *SQLite) SaveEvent(ctx context.Context, ev model.StoredEvent) (int64, error) {
	uid := ev.UID
	if uid == "" {
		uid = uuid.Must(uuid.NewV7()).String()
	}

	var stop *string
	if ev.StopTime != nil {
		v := ev.StopTime.String()
		stop = &v
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (uid, chat_id, event_date, start_time, stop_time, description, recurrent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uid,
		ev.ChatID,
		ev.Date.Format("2006-01-02"),
		ev.StartTime.String(),
		stop,
		ev.Description,
		string(ev.Recurrence),
		nowFunc().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListEvents returns a chat's events ordered by date and start time.
func (s *SQLite) ListEvents(ctx context.Context, chatID string) ([]model.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, chat_id, event_date, start_time, stop_time, description, recurrent, created_at
		 FROM events WHERE chat_id = ? ORDER BY event_date, start_time`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListAllEvents pages through every stored event, for the reminder scan.
func (s *SQLite) ListAllEvents(ctx context.Context, limit, offset int) ([]model.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, chat_id, event_date, start_time, stop_time, description, recurrent, created_at
		 FROM events ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.StoredEvent, error) {
	var out []model.StoredEvent
	for rows.Next() {
		var (
			ev                 model.StoredEvent
			dateRaw, startRaw  string
			stopRaw            sql.NullString
			recurrent, created string
		)
		if err := rows.Scan(&ev.ID, &ev.UID, &ev.ChatID, &dateRaw, &startRaw, &stopRaw, &ev.Description, &recurrent, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		d, err := time.ParseInLocation("2006-01-02", dateRaw, time.UTC)
		if err != nil {
			continue
		}
		st, err := model.ParseTimeOfDay(startRaw)
		if err != nil {
			continue
		}
		ev.Date = d
		ev.StartTime = st
		if stopRaw.Valid {
			if sp, err := model.ParseTimeOfDay(stopRaw.String); err == nil {
				ev.StopTime = &sp
			}
		}
		ev.Recurrence = model.ParseRecurrence(recurrent)
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			ev.CreatedAt = ts
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// UserTimezone resolves a chat's timezone, defaulting when unset.
func (s *SQLite) UserTimezone(ctx context.Context, chatID string) string {
	var tz string
	err := s.db.QueryRowContext(ctx,
		`SELECT time_zone FROM users WHERE chat_id = ?`, chatID).Scan(&tz)
	if err != nil || tz == "" {
		return DefaultTimezone
	}
	return tz
}

// UserLocale resolves a chat's locale, defaulting when unset.
func (s *SQLite) UserLocale(ctx context.Context, chatID string) string {
	var locale string
	err := s.db.QueryRowContext(ctx,
		`SELECT locale FROM users WHERE chat_id = ?`, chatID).Scan(&locale)
	if err != nil || locale == "" {
		return DefaultLocale
	}
	return locale
}

// UpsertUser stores or updates a chat profile.
func (s *SQLite) UpsertUser(ctx context.Context, chatID, timezone, locale string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (chat_id, time_zone, locale) VALUES (?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   time_zone = CASE WHEN excluded.time_zone != '' THEN excluded.time_zone ELSE users.time_zone END,
		   locale    = CASE WHEN excluded.locale    != '' THEN excluded.locale    ELSE users.locale    END`,
		chatID, timezone, locale)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
