package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/savedplaces/internal/logger"
	"github.com/pfrederiksen/savedplaces/internal/place"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

// DetailsClient looks up a place by its numeric id
type DetailsClient interface {
	Details(ctx context.Context, cid uint64) (place.Record, error)
}

// ResolverOptions configures a Resolver
type ResolverOptions struct {
	// Delay is the start-to-start spacing between consecutive rows, applied
	// whatever the previous row's outcome. Time spent on a lookup counts toward it.
	Delay time.Duration
	// SkipFirstRow drops the placeholder row that follows the export header
	SkipFirstRow bool
	// Limit caps the number of rows processed; 0 means no limit
	Limit int
	// DryRun looks places up without writing them to the store
	DryRun bool
}

// Resolver turns export rows into stored place records
type Resolver struct {
	store   storage.Store
	client  DetailsClient
	opts    ResolverOptions
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewResolver creates a Resolver. store may be nil for dry runs.
func NewResolver(store storage.Store, client DetailsClient, opts ResolverOptions, log *zap.Logger) *Resolver {
	return &Resolver{
		store:   store,
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		log:     logger.OrNop(log),
	}
}

// Run resolves every row in order. Per-row failures are recorded in the summary;
// the returned error is only set when the run itself stops early (e.g. cancellation).
func (r *Resolver) Run(ctx context.Context, rows []place.SavedPlace) (*Summary, error) {
	s := newSummary(StageResolve)
	defer s.finish()

	if r.opts.SkipFirstRow && len(rows) > 0 {
		rows = rows[1:]
	}
	if r.opts.Limit > 0 && len(rows) > r.opts.Limit {
		rows = rows[:r.opts.Limit]
	}

	for i, row := range rows {
		if err := r.limiter.Wait(ctx); err != nil {
			return s, eris.Wrap(err, "resolve: waiting for rate limiter")
		}

		r.log.Debug("resolving row", zap.Int("row", i), zap.String("title", row.Title))
		s.add(r.Resolve(ctx, row))
	}

	r.log.Info("resolve finished",
		zap.String("run_id", s.RunID),
		zap.Int("ok", s.Count(StatusOK)),
		zap.Int("skipped", s.Count(StatusSkipped)),
		zap.Int("failed", s.Count(StatusFailed)),
	)
	return s, nil
}

// Resolve looks up a single row and stores the result under the row's slug
func (r *Resolver) Resolve(ctx context.Context, row place.SavedPlace) Outcome {
	slug := row.Slug()

	if strings.TrimSpace(row.URL) == "" {
		r.log.Warn("no URL found", zap.String("slug", slug), zap.String("title", row.Title))
		return skipped(slug, ReasonMissingURL, row.Title)
	}

	if slug == "" {
		err := place.NewError(place.ErrMissingField, eris.Errorf("title %q has no usable characters for a key", row.Title))
		r.log.Error("empty slug", zap.String("title", row.Title), zap.String("url", row.URL))
		return failed(slug, place.Reason(err), err)
	}

	cid, err := row.CID()
	if err != nil {
		r.log.Error("invalid place id", zap.String("slug", slug), zap.String("url", row.URL), zap.Error(err))
		return failed(slug, place.Reason(err), err)
	}

	rec, err := r.client.Details(ctx, cid)
	if err != nil {
		r.log.Error("place details lookup failed",
			zap.Uint64("cid", cid),
			zap.String("slug", slug),
			zap.Error(err),
		)
		return failed(slug, place.Reason(err), err)
	}

	if r.opts.DryRun {
		r.log.Info("resolved place (dry run)", zap.Uint64("cid", cid), zap.String("slug", slug), zap.String("name", rec.Name()))
		return ok(slug, rec.Name())
	}

	if err := r.store.Put(ctx, slug, rec); err != nil {
		reason := place.Reason(err)
		if reason == "error" {
			reason = ReasonStore
		}
		r.log.Error("saving place failed", zap.Uint64("cid", cid), zap.String("slug", slug), zap.Error(err))
		return failed(slug, reason, err)
	}

	r.log.Info("resolved place", zap.Uint64("cid", cid), zap.String("slug", slug), zap.String("name", rec.Name()))
	return ok(slug, rec.Name())
}
