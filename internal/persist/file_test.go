package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/models"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "bandstand.json"), zap.NewNop())

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Rentals)
	assert.Equal(t, models.SnapshotSchemaVersion, snap.SchemaVersion)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bandstand.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path, zap.NewNop())
	snap, err := s.Load(context.Background())
	require.NoError(t, err, "corrupt data must degrade to empty, not fail")
	assert.Empty(t, snap.Items)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bandstand.json")
	s := NewFileStore(path, zap.NewNop())
	ctx := context.Background()

	want := models.SampleSnapshot()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Students, got.Students)
	assert.Equal(t, want.Rentals, got.Rentals)

	// The temp file must not linger after a successful save.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_LoadIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bandstand.json")
	payload := `{"schema_version":1,"items":[{"id":"1","name":"Tuba","barcode":"TU001","status":"Available","value":900,"future_field":true}],"some_future_section":{"x":1}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	s := NewFileStore(path, zap.NewNop())
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Tuba", snap.Items[0].Name)
}

func TestFileStore_SaveFailsWithPersistenceError(t *testing.T) {
	// Point at a path whose parent directory does not exist.
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "bandstand.json"), zap.NewNop())

	err := s.Save(context.Background(), models.EmptySnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}
