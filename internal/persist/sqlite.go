package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS save_slots (
	slot       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore keeps slots in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the database at path with WAL pragmas and migrates
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Load returns the slot payload or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, slot string) ([]byte, error) {
	const q = `SELECT data FROM save_slots WHERE slot = ?`

	var data string
	err := s.db.QueryRowContext(ctx, q, slot).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	return []byte(data), nil
}

// Save upserts the slot.
func (s *SQLiteStore) Save(ctx context.Context, slot string, data []byte) error {
	const q = `INSERT INTO save_slots (slot, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, q, slot, string(data), s.now().UnixNano()); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot. Deleting a missing slot is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	return nil
}

// List returns slots, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]SlotInfo, error) {
	const q = `SELECT slot, updated_at FROM save_slots ORDER BY updated_at DESC, slot ASC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var updated int64
		if err := rows.Scan(&info.Slot, &updated); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated)
		slots = append(slots, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
