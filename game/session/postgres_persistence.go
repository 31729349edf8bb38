package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wricardo/klondike/game/service"
)

const postgresOpTimeout = 5 * time.Second

const postgresSchema = `
CREATE TABLE IF NOT EXISTS klondike_sessions (
	id         TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresPersistence implements SessionPersistence on a PostgreSQL table.
// Each row holds one session document as JSONB.
type PostgresPersistence struct {
	pool          *pgxpool.Pool
	configManager service.ConfigManager
}

// NewPostgresPersistence opens a pool for dsn and creates the sessions table if needed
func NewPostgresPersistence(ctx context.Context, dsn string, configManager service.ConfigManager) (*PostgresPersistence, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	pp := &PostgresPersistence{pool: pool, configManager: configManager}
	if err := pp.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pp, nil
}

// EnsureSchema creates the sessions table if it does not exist
func (pp *PostgresPersistence) EnsureSchema(ctx context.Context) error {
	if _, err := pp.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Close releases the pool
func (pp *PostgresPersistence) Close() {
	pp.pool.Close()
}

// Save upserts a session row
func (pp *PostgresPersistence) Save(session *service.Session) error {
	data, err := encodeSession(session, pp.configManager)
	if err != nil {
		return err
	}

	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	_, err = pp.pool.Exec(ctx, `
		INSERT INTO klondike_sessions (id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		session.ID, doc)
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}
	return nil
}

// Load retrieves a session by ID
func (pp *PostgresPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	var doc []byte
	err := pp.pool.QueryRow(ctx, `SELECT document FROM klondike_sessions WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return decodeSession(&data, pp.configManager)
}

// Delete removes a session row
func (pp *PostgresPersistence) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	tag, err := pp.pool.Exec(ctx, `DELETE FROM klondike_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all stored session IDs, most recently saved first
func (pp *PostgresPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	rows, err := pp.pool.Query(ctx, `SELECT id FROM klondike_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan session ids: %w", err)
	}
	return ids, nil
}

// Exists checks if a session row exists
func (pp *PostgresPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	var exists bool
	err := pp.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM klondike_sessions WHERE id = $1)`, id).Scan(&exists)
	return err == nil && exists
}
