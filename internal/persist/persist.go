// Package persist keeps a durable local mirror of the inventory dataset.
//
// A Store holds exactly one snapshot per device. Load never fails the
// caller: missing or unreadable data degrades to an empty dataset with a
// logged warning, so a corrupt local mirror can never lock the user out of
// the application. Save is synchronous; when it returns nil the snapshot is
// durable.
package persist

import (
	"context"
	"errors"

	"github.com/bandstand/bandstand/internal/models"
)

// ErrPersistence marks failures of the underlying local storage. Every
// error returned from Store.Save matches it via errors.Is.
var ErrPersistence = errors.New("persistence failure")

// Store is the local persistence adapter used by the record store.
type Store interface {
	// Load returns the last-persisted snapshot, or an empty snapshot if
	// nothing usable is stored. It does not return storage errors.
	Load(ctx context.Context) (models.Snapshot, error)
	// Save replaces the stored snapshot. Errors match ErrPersistence.
	Save(ctx context.Context, snap models.Snapshot) error
	// Close releases any underlying resources.
	Close() error
}
