// Package persist saves and restores the navigation session in named slots.
//
// A Store is a small key-value interface over save slots. Three backends are
// provided: JSON files in a directory, a SQLite database and an in-memory map.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultSlot is the slot name used when none is configured.
const DefaultSlot = "stellar-game-storage"

// ErrNotFound is returned by Load when the slot has never been saved.
var ErrNotFound = errors.New("save slot not found")

// SlotInfo describes a stored slot.
type SlotInfo struct {
	Slot      string    `json:"slot"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store reads and writes opaque slot payloads.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
	List(ctx context.Context) ([]SlotInfo, error)
	Close() error
}

// Store kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Kinds lists the valid store kinds.
var Kinds = []string{KindFile, KindSQLite, KindMemory}

// Open creates a store of the given kind. For file stores path is a
// directory; for SQLite it is the database file. Memory stores ignore path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case KindFile, "":
		return NewFileStore(path)
	case KindSQLite:
		return NewSQLiteStore(path)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q (want one of %s)", kind, strings.Join(Kinds, ", "))
	}
}
