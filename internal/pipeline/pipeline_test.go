package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/savedplaces/internal/place"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

// newFileStore returns an empty file store in a temp dir
func newFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	s, err := storage.NewFileStore(filepath.Join(t.TempDir(), "places"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeDetails serves canned records by place id
type fakeDetails struct {
	mu      sync.Mutex
	records map[uint64]place.Record
	errs    map[uint64]error
	calls   []uint64
}

func (f *fakeDetails) Details(_ context.Context, cid uint64) (place.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cid)

	if err, ok := f.errs[cid]; ok {
		return nil, err
	}
	if rec, ok := f.records[cid]; ok {
		cp := make(place.Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		return cp, nil
	}
	return nil, place.NewError(place.ErrHTTPStatus, errors.New("NOT_FOUND"))
}

// fakeFetcher serves canned pages by URL and counts requests
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}
