package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "slots"))
	require.NoError(t, err)

	db, err := NewSQLiteStore(filepath.Join(dir, "stellar.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		KindFile:   file,
		KindSQLite: db,
		KindMemory: NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for kind, s := range openStores(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := s.Load(ctx, DefaultSlot)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, DefaultSlot, []byte(`{"a":1}`)))
			require.NoError(t, s.Save(ctx, DefaultSlot, []byte(`{"a":2}`)))

			data, err := s.Load(ctx, DefaultSlot)
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(data))

			slots, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, slots, 1)
			assert.Equal(t, DefaultSlot, slots[0].Slot)
			assert.False(t, slots[0].UpdatedAt.IsZero())

			require.NoError(t, s.Delete(ctx, DefaultSlot))
			require.NoError(t, s.Delete(ctx, DefaultSlot), "deleting twice is fine")

			_, err = s.Load(ctx, DefaultSlot)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStore_PrettyPrintsAndSanitises(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../evil slot", []byte(`{"a":1}`)))

	data, err := os.ReadFile(filepath.Join(dir, "evilslot.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))

	_, err = s.Load(context.Background(), "...")
	assert.Error(t, err, "slot with no usable characters")
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stellar.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "main", []byte(`{"ok":true}`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Load(ctx, "main")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		kind    string
		path    string
		wantErr bool
	}{
		{"file", filepath.Join(dir, "files"), false},
		{"SQLITE", filepath.Join(dir, "x.db"), false},
		{"memory", "", false},
		{"redis", "", true},
		{"sqlite", "", true},
	}

	for _, tt := range tests {
		s, err := Open(tt.kind, tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.kind)
			continue
		}
		require.NoError(t, err, tt.kind)
		assert.NoError(t, s.Close())
	}
}
