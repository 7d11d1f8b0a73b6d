package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

const recordExt = ".json"

// FileStore keeps one JSON file per record
type FileStore struct {
	dataDir string
}

// NewFileStore creates a FileStore rooted at dataDir.
// With create set the directory is created if needed; otherwise it must exist.
func NewFileStore(dataDir string, create bool) (*FileStore, error) {
	if dataDir == "" {
		return nil, eris.New("storage: data directory is empty")
	}

	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if create {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, eris.Wrap(err, "storage: creating data directory")
		}
	} else {
		info, err := os.Stat(dataDir)
		if err != nil {
			return nil, eris.Wrapf(err, "storage: opening data directory %s", dataDir)
		}
		if !info.IsDir() {
			return nil, eris.Errorf("storage: %s is not a directory", dataDir)
		}
	}

	return &FileStore{
		dataDir: dataDir,
	}, nil
}

// Dir returns the directory records are stored in
func (s *FileStore) Dir() string {
	return s.dataDir
}

// recordPath returns the path of the file holding key
func (s *FileStore) recordPath(key string) string {
	return filepath.Join(s.dataDir, key+recordExt)
}

// Get loads a record from disk
func (s *FileStore) Get(_ context.Context, key string) (place.Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(ErrNotFound, "storage: %s", key)
		}
		return nil, eris.Wrapf(err, "storage: reading %s", key)
	}

	rec, err := place.DecodeRecord(data)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: parsing %s", key)
	}
	return rec, nil
}

// Put writes a record to disk, replacing any previous file
func (s *FileStore) Put(_ context.Context, key string, rec place.Record) error {
	if err := validKey(key); err != nil {
		return err
	}

	data, err := place.EncodeRecord(rec)
	if err != nil {
		return eris.Wrapf(err, "storage: encoding %s", key)
	}

	if err := os.WriteFile(s.recordPath(key), data, 0644); err != nil {
		return eris.Wrapf(err, "storage: writing %s", key)
	}
	return nil
}

// Keys lists the stems of every *.json file in the directory
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, eris.Wrap(err, "storage: listing data directory")
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		if key := strings.TrimSuffix(name, recordExt); key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
