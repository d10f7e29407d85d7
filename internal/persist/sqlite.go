package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bandstand/bandstand/internal/models"
)

// snapshotSchema stores the whole dataset as one row. The CHECK keeps it a
// single-slot mirror rather than a history.
const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshot (
    id             INTEGER PRIMARY KEY CHECK (id = 1),
    schema_version INTEGER NOT NULL,
    saved_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload        BLOB NOT NULL
);
`

// SQLiteStore persists the snapshot in a single-row SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (or creates) the SQLite database at path and ensures the
// snapshot table exists.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

// NewSQLiteStoreFromDB wraps an existing database handle. The snapshot
// table must already exist. Used by tests to inject a mock connection.
func NewSQLiteStoreFromDB(db *sql.DB, log *zap.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

// Load reads the single snapshot row. No row is a normal first run; a
// corrupt payload is logged and treated as empty.
func (s *SQLiteStore) Load(ctx context.Context) (models.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot WHERE id = 1`,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.EmptySnapshot(), nil
	}
	if err != nil {
		s.log.Warn("unreadable snapshot row, starting empty", zap.Error(err))
		return models.EmptySnapshot(), nil
	}

	snap := models.EmptySnapshot()
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.log.Warn("corrupt snapshot payload, starting empty", zap.Error(err))
		return models.EmptySnapshot(), nil
	}
	return snap, nil
}

// Save upserts the single snapshot row.
func (s *SQLiteStore) Save(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %w", ErrPersistence, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshot (id, schema_version, saved_at, payload)
		 VALUES (1, ?, CURRENT_TIMESTAMP, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     schema_version = excluded.schema_version,
		     saved_at = excluded.saved_at,
		     payload = excluded.payload`,
		snap.SchemaVersion, payload,
	)
	if err != nil {
		return fmt.Errorf("%w: storing snapshot: %w", ErrPersistence, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
