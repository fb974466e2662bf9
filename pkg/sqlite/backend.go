// Package sqlite is the public entry point to the satzkarte card database
// for programs that embed it instead of running the CLI.
package sqlite

import (
	"github.com/mesh-intelligence/satzkarte/internal/sqlite"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Backend is the card database handle. See internal/sqlite for the
// operations it provides.
type Backend = sqlite.Backend

// NewBackend creates a detached backend; call Attach before use.
func NewBackend() *Backend {
	return sqlite.NewBackend()
}

// Open creates a backend and attaches it to config.DataDir. The caller must
// Detach it.
//
// Example:
//
//	b, err := sqlite.Open(types.Config{DataDir: ".satzkarte-db", Timezone: types.DefaultTimezone})
//	if err != nil {
//		return err
//	}
//	defer b.Detach()
func Open(config types.Config) (*Backend, error) {
	b := sqlite.NewBackend()
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
