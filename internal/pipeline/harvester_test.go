package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

func TestHarvester_Run(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	seed := map[string]place.Record{
		"has_email":     {"name": "Has Email", "website": "http://a.test", "email": "x@a.test"},
		"has_emails":    {"name": "Has Emails", "website": "http://b.test", "emails": []string{"y@b.test"}},
		"no_website":    {"name": "No Website"},
		"blank_website": {"name": "Blank Website", "website": "   "},
		"quiet":         {"name": "Quiet", "website": "http://quiet.test"},
		"down":          {"name": "Down", "website": "http://down.test"},
		"shop":          {"name": "Shop", "website": "http://shop.test"},
	}
	for k, rec := range seed {
		require.NoError(t, store.Put(ctx, k, rec))
	}

	fetcher := &fakeFetcher{
		pages: map[string]string{
			"http://quiet.test": "<html><body>Call us</body></html>",
			"http://shop.test":  `<a href="mailto:sales@shop.test">Sales</a> or info@shop.test`,
		},
		errs: map[string]error{
			"http://down.test": place.NewError(place.ErrHTTPStatus, errors.New("503")),
		},
	}

	h := NewHarvester(store, fetcher, HarvesterOptions{}, zaptest.NewLogger(t))
	summary, err := h.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, StageHarvest, summary.Stage)
	assert.Len(t, summary.Outcomes, len(seed))
	assert.Equal(t, 3, fetcher.calls)

	expect := map[string]struct {
		status Status
		reason string
	}{
		"has_email":     {StatusSkipped, ReasonHasEmails},
		"has_emails":    {StatusSkipped, ReasonHasEmails},
		"no_website":    {StatusSkipped, ReasonNoWebsite},
		"blank_website": {StatusSkipped, ReasonNoWebsite},
		"quiet":         {StatusSkipped, ReasonNoEmails},
		"down":          {StatusFailed, "http_status"},
		"shop":          {StatusOK, ""},
	}
	for key, want := range expect {
		o, found := summary.Find(key)
		require.True(t, found, key)
		assert.Equal(t, want.status, o.Status, key)
		assert.Equal(t, want.reason, o.Reason, key)
	}

	rec, err := store.Get(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"info@shop.test", "sales@shop.test"}, rec.Emails())
	assert.Equal(t, "Shop", rec.Name())

	rec, err = store.Get(ctx, "quiet")
	require.NoError(t, err)
	_, set := rec["emails"]
	assert.False(t, set)
}

func TestHarvester_SkipsWithoutFetching(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	require.NoError(t, store.Put(ctx, "done", place.Record{
		"name":    "Done",
		"website": "http://done.test",
		"emails":  []string{"a@done.test"},
	}))

	fetcher := &fakeFetcher{}
	h := NewHarvester(store, fetcher, HarvesterOptions{}, nil)

	for i := 0; i < 2; i++ {
		summary, err := h.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Count(StatusSkipped))
	}
	assert.Zero(t, fetcher.calls)
}

func TestHarvester_Force(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	require.NoError(t, store.Put(ctx, "done", place.Record{
		"website": "http://done.test",
		"emails":  []string{"old@done.test"},
	}))

	fetcher := &fakeFetcher{pages: map[string]string{"http://done.test": "new@done.test"}}
	h := NewHarvester(store, fetcher, HarvesterOptions{Force: true}, nil)

	summary, err := h.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count(StatusOK))

	rec, err := store.Get(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, []string{"new@done.test"}, rec.Emails())
}

func TestHarvester_MalformedRecord(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	require.NoError(t, store.Put(ctx, "good", place.Record{"name": "Good"}))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{not json"), 0o644))

	h := NewHarvester(store, &fakeFetcher{}, HarvesterOptions{}, nil)
	summary, err := h.Run(ctx)
	require.NoError(t, err)

	o, found := summary.Find("broken")
	require.True(t, found)
	assert.Equal(t, StatusFailed, o.Status)
	assert.Equal(t, "decode", o.Reason)

	o, found = summary.Find("good")
	require.True(t, found)
	assert.Equal(t, ReasonNoWebsite, o.Reason)
}

func TestHarvester_Canceled(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Put(context.Background(), "a", place.Record{"website": "http://a.test"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	_, err := NewHarvester(store, fetcher, HarvesterOptions{}, nil).Run(ctx)
	require.Error(t, err)
	assert.Zero(t, fetcher.calls)
}
