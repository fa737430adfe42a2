package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var cleanSlotRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// cleanSlot strips anything that is not safe in a file name.
func cleanSlot(slot string) string {
	return cleanSlotRe.ReplaceAllString(slot, "")
}

// FileStore keeps one pretty-printed JSON file per slot.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) (string, error) {
	clean := cleanSlot(slot)
	if clean == "" {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, clean+".json"), nil
}

// Load returns the slot payload or ErrNotFound.
func (s *FileStore) Load(_ context.Context, slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	return data, nil
}

// Save writes the payload through a temporary file and a rename.
func (s *FileStore) Save(_ context.Context, slot string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(slot)
	if err != nil {
		return err
	}

	// Pretty-print for readability
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err == nil {
		pretty.WriteByte('\n')
		data = pretty.Bytes()
	}

	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot. Deleting a missing slot is not an error.
func (s *FileStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	return nil
}

// List returns slots, most recently updated first.
func (s *FileStore) List(_ context.Context) ([]SlotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	var slots []SlotInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		slots = append(slots, SlotInfo{
			Slot:      strings.TrimSuffix(entry.Name(), ".json"),
			UpdatedAt: info.ModTime(),
		})
	}

	sortSlots(slots)
	return slots, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func sortSlots(slots []SlotInfo) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].UpdatedAt.Equal(slots[j].UpdatedAt) {
			return slots[i].UpdatedAt.After(slots[j].UpdatedAt)
		}
		return slots[i].Slot < slots[j].Slot
	})
}
