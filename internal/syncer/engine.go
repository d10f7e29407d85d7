// Package syncer bridges the record store and the remote blob store,
// gated by the auth session. Backup and restore are manual, whole-dataset
// operations: one backup slot per account, no history, no field-level
// merge.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/auth"
	"github.com/bandstand/bandstand/internal/inventory"
	"github.com/bandstand/bandstand/internal/models"
)

var (
	// ErrSyncBusy means another backup or restore is already in flight.
	// The request fails fast instead of queueing; the caller decides
	// whether to retry.
	ErrSyncBusy = errors.New("sync already in progress")
	// ErrSyncFailed wraps network or provider failures. Local data is
	// left untouched.
	ErrSyncFailed = errors.New("sync failed")
	// ErrNoBackupFound means the account's backup slot is empty.
	ErrNoBackupFound = errors.New("no backup found")
	// ErrIncompatibleSchema means the stored backup was written by a
	// newer build than this one can read.
	ErrIncompatibleSchema = errors.New("backup requires a newer version")
)

// namespace prefixes every backup object key.
const namespace = "bandstand/v1"

// backupKey derives the fixed per-account object key. One slot per
// account: each backup overwrites the previous one.
func backupKey(account string) string {
	return namespace + "/" + account + "/backup.json"
}

// Remote is the external blob store holding one backup object per
// account. Implementations own their network deadlines; the engine
// enforces none.
type Remote interface {
	// Put stores body under key, overwriting any previous object.
	Put(ctx context.Context, key, bearer string, body []byte) error
	// Get fetches the object under key. An empty slot is reported as
	// ErrNoBackupFound.
	Get(ctx context.Context, key, bearer string) ([]byte, error)
}

// Engine orchestrates manual backup and restore.
type Engine struct {
	store   *inventory.Store
	session *auth.Session
	remote  Remote
	log     *zap.Logger

	// gate serializes backup/restore; TryLock gives the fail-fast
	// SyncBusy behavior.
	gate sync.Mutex

	mu           sync.Mutex
	syncing      bool
	lastBackupAt *time.Time
	lastError    string

	now func() time.Time
}

// New wires the engine to its collaborators.
func New(store *inventory.Store, session *auth.Session, remote Remote, log *zap.Logger) *Engine {
	return &Engine{
		store:   store,
		session: session,
		remote:  remote,
		log:     log,
		now:     time.Now,
	}
}

// Status reports the current sync state for the UI. A true Syncing means
// "disable sync actions", not "disable data entry": record mutations stay
// safe during sync because backup snapshots before its first network call
// and restore applies one atomic swap.
func (e *Engine) Status() models.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.SyncStatus{
		SignedIn:     e.session.SignedIn(),
		Account:      e.session.Account(),
		Syncing:      e.syncing,
		LastBackupAt: e.lastBackupAt,
		LastError:    e.lastError,
	}
}

// ManualBackup serializes a point-in-time snapshot of the whole dataset
// and uploads it to the account's backup slot. Local data is never
// touched; failure leaves the previous backup in place on the provider's
// side as well, since the upload either replaces the object or doesn't.
func (e *Engine) ManualBackup(ctx context.Context) error {
	tok, err := e.session.Token()
	if err != nil {
		e.setError(err)
		return err
	}
	if !e.gate.TryLock() {
		return ErrSyncBusy
	}
	defer e.gate.Unlock()
	e.setSyncing(true)
	defer e.setSyncing(false)

	epoch := e.session.Epoch()

	// Snapshot before the first suspension point, so the backup reflects
	// the state at call time even if mutations land during the upload.
	snap := e.store.Snapshot()
	body, err := json.Marshal(snap)
	if err != nil {
		err = fmt.Errorf("%w: encoding snapshot: %w", ErrSyncFailed, err)
		e.setError(err)
		return err
	}

	if err := e.remote.Put(ctx, backupKey(tok.Account), tok.AccessToken, body); err != nil {
		err = fmt.Errorf("%w: %w", ErrSyncFailed, err)
		e.setError(err)
		return err
	}

	if e.session.Epoch() != epoch {
		// Signed out while the upload was in flight: the result is void.
		e.log.Info("backup finished after sign-out, result discarded")
		return nil
	}

	now := e.now().UTC()
	e.mu.Lock()
	e.lastBackupAt = &now
	e.lastError = ""
	e.mu.Unlock()
	e.log.Info("backup uploaded",
		zap.String("account", tok.Account),
		zap.Int("items", len(snap.Items)),
		zap.Int("students", len(snap.Students)),
		zap.Int("rentals", len(snap.Rentals)))
	return nil
}

// ManualRestore downloads the account's backup and replaces the entire
// record store contents with it in one atomic swap. Local edits made
// since the backup are discarded: this is whole-dataset overwrite, not a
// merge. The local mirror is re-saved with the restored contents.
func (e *Engine) ManualRestore(ctx context.Context) error {
	tok, err := e.session.Token()
	if err != nil {
		e.setError(err)
		return err
	}
	if !e.gate.TryLock() {
		return ErrSyncBusy
	}
	defer e.gate.Unlock()
	e.setSyncing(true)
	defer e.setSyncing(false)

	epoch := e.session.Epoch()

	body, err := e.remote.Get(ctx, backupKey(tok.Account), tok.AccessToken)
	if err != nil {
		if !errors.Is(err, ErrNoBackupFound) {
			err = fmt.Errorf("%w: %w", ErrSyncFailed, err)
		}
		e.setError(err)
		return err
	}

	snap := models.EmptySnapshot()
	if err := json.Unmarshal(body, &snap); err != nil {
		err = fmt.Errorf("%w: decoding backup: %w", ErrSyncFailed, err)
		e.setError(err)
		return err
	}
	if snap.SchemaVersion > models.SnapshotSchemaVersion {
		err = fmt.Errorf("%w: backup schema %d, supported %d",
			ErrIncompatibleSchema, snap.SchemaVersion, models.SnapshotSchemaVersion)
		e.setError(err)
		return err
	}

	if e.session.Epoch() != epoch {
		// Signed out during the download: no local mutation is applied.
		e.log.Info("restore finished after sign-out, result discarded")
		return nil
	}

	if err := e.store.ReplaceAll(ctx, snap); err != nil {
		e.setError(err)
		return err
	}

	e.mu.Lock()
	e.lastError = ""
	e.mu.Unlock()
	e.log.Info("restore applied",
		zap.String("account", tok.Account),
		zap.Int("items", len(snap.Items)),
		zap.Int("students", len(snap.Students)),
		zap.Int("rentals", len(snap.Rentals)))
	return nil
}

func (e *Engine) setSyncing(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncing = v
}

func (e *Engine) setError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastError = err.Error()
}
