// Package store persists HDL module definitions.
//
// Modules are stored as zstd-compressed JSON blobs keyed by module name.
// Three backends share the same [Store] interface:
//   - [FileStore]: one <name>.json.zst file per module, for the CLI
//   - [SQLiteStore]: a single database file with a modules table
//   - [RedisStore]: a Redis hash, for editors sharing one library
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses $XDG_DATA_HOME/gridwire/modules/
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	if err := st.Put(ctx, m); err != nil {
//	    return err
//	}
//	m, err := st.Get(ctx, "half_adder")
//	if errors.Is(err, store.ErrNotFound) {
//	    // never saved
//	}
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/gridwire/pkg/hdl"
)

// ErrNotFound is returned when no module is stored under a name.
var ErrNotFound = errors.New("module not found")

// Store is the interface for module definition backends.
type Store interface {
	// Put stores m under m.Name, replacing any previous definition.
	Put(ctx context.Context, m *hdl.Module) error

	// Get retrieves a module by name. Returns ErrNotFound if it is missing.
	Get(ctx context.Context, name string) (*hdl.Module, error)

	// List returns every stored module name in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes a module. Deleting a missing module is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// validate rejects modules that could not be emitted or used as file names.
func validate(m *hdl.Module) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("store module: %w", err)
	}
	return nil
}
