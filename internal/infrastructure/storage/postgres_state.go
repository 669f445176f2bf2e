package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
)

const (
	postgresConnectAttemptsDefault = 5
	postgresConnectDelayDefault    = 2 * time.Second

	kvKeySession  = "session"
	kvKeyUsername = "saved_username"
	kvKeyLogLevel = "log_level"
)

// postgresStateStore Postgres-backed client state.
// Single-row key/value table for session/username/level plus an
// append-only capped log table.
type postgresStateStore struct {
	db *sql.DB
}

// NewPostgresStateStore opens the database (with retry), prepares the
// schema and returns the store.
func NewPostgresStateStore(dsn string) (repository.StateStore, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, err
	}

	schema := `
CREATE TABLE IF NOT EXISTS client_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS client_logs (
	id TEXT PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL,
	level TEXT NOT NULL,
	message TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create client state tables: %w", err)
	}

	return &postgresStateStore{db: db}, nil
}

func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= postgresConnectAttemptsDefault; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < postgresConnectAttemptsDefault {
			time.Sleep(postgresConnectDelayDefault)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func (p *postgresStateStore) setKV(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
	INSERT INTO client_state (key, value, updated_at) VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	return err
}

func (p *postgresStateStore) getKV(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *postgresStateStore) deleteKV(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = $1`, key)
	return err
}

func (p *postgresStateStore) SaveSession(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return p.deleteKV(ctx, kvKeySession)
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return p.setKV(ctx, kvKeySession, string(raw))
}

func (p *postgresStateStore) LoadSession(ctx context.Context) (*entity.Session, bool, error) {
	raw, ok, err := p.getKV(ctx, kvKeySession)
	if err != nil || !ok {
		return nil, false, err
	}
	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (p *postgresStateStore) ClearSession(ctx context.Context) error {
	return p.deleteKV(ctx, kvKeySession)
}

func (p *postgresStateStore) SaveUsername(ctx context.Context, username string) error {
	return p.setKV(ctx, kvKeyUsername, username)
}

func (p *postgresStateStore) LoadUsername(ctx context.Context) (string, bool, error) {
	return p.getKV(ctx, kvKeyUsername)
}

func (p *postgresStateStore) AppendLog(ctx context.Context, entry entity.LogEntry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	_, err := p.db.ExecContext(ctx, `
	INSERT INTO client_logs (id, ts, level, message) VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO NOTHING`, entry.ID, entry.Time, entry.Level, entry.Message)
	if err != nil {
		return err
	}
	// Eski yozuvlarni o'chirish (oxirgi 100 tasi qoladi)
	_, err = p.db.ExecContext(ctx, `
	DELETE FROM client_logs WHERE id NOT IN (
		SELECT id FROM client_logs ORDER BY ts DESC LIMIT $1
	)`, constants.MaxLogEntries)
	return err
}

func (p *postgresStateStore) ListLogs(ctx context.Context) ([]entity.LogEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, ts, level, message FROM client_logs ORDER BY ts ASC LIMIT $1`,
		constants.MaxLogEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.LogEntry
	for rows.Next() {
		var e entity.LogEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Level, &e.Message); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *postgresStateStore) ClearLogs(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM client_logs`)
	return err
}

func (p *postgresStateStore) SaveLogLevel(ctx context.Context, level int) error {
	return p.setKV(ctx, kvKeyLogLevel, fmt.Sprintf("%d", level))
}

func (p *postgresStateStore) LoadLogLevel(ctx context.Context) (int, bool, error) {
	raw, ok, err := p.getKV(ctx, kvKeyLogLevel)
	if err != nil || !ok {
		return 0, false, err
	}
	var level int
	if _, err := fmt.Sscanf(raw, "%d", &level); err != nil {
		return 0, false, nil
	}
	return level, true, nil
}
