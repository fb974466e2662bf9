// Package sqlite implements the SQLite record store for set cards.
//
// The store keeps two tables, history (card headers) and details (line
// items), linked by the card identifier string. Every operation checks out
// its own connection and releases it before returning; nothing is shared
// between operations except the connection factory.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Backend is the record store. Create it with NewBackend and call Attach
// before use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	loc      *time.Location
	db       *sql.DB

	// now is the clock for card timestamps; tests replace it.
	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{now: time.Now}
}

// Attach opens (or creates) DataDir/satzkarten.db and makes sure the schema
// exists. Existing data is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}
	loc, err := config.Location()
	if err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return &types.StorageError{Op: "create data dir", Err: err}
	}

	dbPath := filepath.Join(dataDir, types.DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return &types.StorageError{Op: "open database", Err: err}
	}
	// No idle connections: each operation opens its own and closes it on
	// release.
	db.SetMaxIdleConns(0)

	if err := ensureSchema(context.Background(), db); err != nil {
		db.Close()
		return &types.StorageError{Op: "initialize schema", Err: err}
	}

	b.db = db
	b.config = config
	b.loc = loc
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return &types.StorageError{Op: "close database", Err: err}
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Path returns the database file location, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, types.DatabaseFile)
}

// withConn runs fn on a connection checked out for this call only.
func (b *Backend) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	conn, err := b.db.Conn(ctx)
	if err != nil {
		return storageErr(op, err)
	}
	defer conn.Close()

	return fn(conn)
}

// timestamp returns the current time in the configured zone, truncated to
// whole seconds.
func (b *Backend) timestamp() time.Time {
	return b.now().In(b.loc).Truncate(time.Second)
}

func storageErr(op string, err error) error {
	return &types.StorageError{Op: op, Err: err}
}

// parseTimestamp reads a stored timestamp in the backend zone. Rows written
// by hand or by older tools may hold anything; those yield the zero time.
func (b *Backend) parseTimestamp(s string) time.Time {
	t, err := time.ParseInLocation(types.TimestampLayout, s, b.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimestamp(t time.Time) string {
	return t.Format(types.TimestampLayout)
}
