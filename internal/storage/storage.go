package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

// Supported drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrNotFound is returned by Get for unknown keys
var ErrNotFound = eris.New("record not found")

// Store persists place records keyed by slug
type Store interface {
	// Get returns the record stored under key, or ErrNotFound
	Get(ctx context.Context, key string) (place.Record, error)
	// Put creates or overwrites the record stored under key
	Put(ctx context.Context, key string, rec place.Record) error
	// Keys lists every stored key in ascending order
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Options selects and configures a Store backend
type Options struct {
	Driver string
	Path   string
	// Create allows a missing store to be created. Stages that only read
	// existing records leave it false so a wrong path fails loudly.
	Create bool
}

// Open returns the Store described by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverFile:
		return NewFileStore(opts.Path, opts.Create)
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.Path, opts.Create)
	default:
		return nil, eris.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

// expandHome expands a leading ~/ to the user's home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "storage: getting home directory")
	}
	return filepath.Join(home, path[2:]), nil
}

// validKey rejects keys that cannot name a record
func validKey(key string) error {
	if key == "" {
		return place.NewError(place.ErrMissingField, eris.New("empty key"))
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return eris.Errorf("storage: invalid key %q", key)
	}
	return nil
}
