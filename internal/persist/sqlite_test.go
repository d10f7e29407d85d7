package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/models"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStoreFromDB(db, zap.NewNop()), mock
}

func TestSQLiteStore_LoadNoRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT payload FROM snapshot").WillReturnError(sql.ErrNoRows)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Equal(t, models.SnapshotSchemaVersion, snap.SchemaVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadSnapshot(t *testing.T) {
	s, mock := newMockStore(t)

	want := models.SampleSnapshot()
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Rentals, got.Rentals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadCorruptPayloadDegradesToEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT payload FROM snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{broken")))

	snap, err := s.Load(context.Background())
	require.NoError(t, err, "corrupt data must degrade to empty, not fail")
	assert.Empty(t, snap.Items)
}

func TestSQLiteStore_Save(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO snapshot").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Save(context.Background(), models.SampleSnapshot())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_SaveFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO snapshot").
		WillReturnError(errors.New("database is locked"))

	err := s.Save(context.Background(), models.EmptySnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}
