package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pfrederiksen/savedplaces/internal/logger"
	"github.com/pfrederiksen/savedplaces/internal/place"
	"github.com/pfrederiksen/savedplaces/internal/scraper"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

// PageFetcher downloads a web page as HTML text
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HarvesterOptions configures a Harvester
type HarvesterOptions struct {
	// Force re-harvests records that already carry email data
	Force bool
}

// Harvester adds website email addresses to stored records
type Harvester struct {
	store   storage.Store
	fetcher PageFetcher
	opts    HarvesterOptions
	log     *zap.Logger
}

// NewHarvester creates a Harvester
func NewHarvester(store storage.Store, fetcher PageFetcher, opts HarvesterOptions, log *zap.Logger) *Harvester {
	return &Harvester{
		store:   store,
		fetcher: fetcher,
		opts:    opts,
		log:     logger.OrNop(log),
	}
}

// Run harvests every stored record in key order
func (h *Harvester) Run(ctx context.Context) (*Summary, error) {
	s := newSummary(StageHarvest)
	defer s.finish()

	keys, err := h.store.Keys(ctx)
	if err != nil {
		return s, eris.Wrap(err, "harvest: listing records")
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return s, eris.Wrap(err, "harvest: stopped")
		}
		s.add(h.Harvest(ctx, key))
	}

	h.log.Info("harvest finished",
		zap.String("run_id", s.RunID),
		zap.Int("ok", s.Count(StatusOK)),
		zap.Int("skipped", s.Count(StatusSkipped)),
		zap.Int("failed", s.Count(StatusFailed)),
	)
	return s, nil
}

// Harvest processes one record. Records that already have emails or have no
// website are left untouched and no request is made for them.
func (h *Harvester) Harvest(ctx context.Context, key string) Outcome {
	rec, err := h.store.Get(ctx, key)
	if err != nil {
		h.log.Error("reading record failed", zap.String("slug", key), zap.Error(err))
		return failed(key, place.Reason(err), err)
	}

	name := rec.Name()
	if !h.opts.Force && rec.HasEmails() {
		h.log.Info("email already exists", zap.String("slug", key), zap.String("name", name))
		return skipped(key, ReasonHasEmails, name)
	}

	website := rec.Website()
	if website == "" {
		h.log.Info("no website", zap.String("slug", key), zap.String("name", name))
		return skipped(key, ReasonNoWebsite, name)
	}

	html, err := h.fetcher.Fetch(ctx, website)
	if err != nil {
		h.log.Error("fetching website failed",
			zap.String("slug", key),
			zap.String("website", website),
			zap.Error(err),
		)
		return failed(key, place.Reason(err), err)
	}

	emails := scraper.ExtractEmails(html)
	if len(emails) == 0 {
		h.log.Info("no emails found", zap.String("slug", key), zap.String("website", website))
		return skipped(key, ReasonNoEmails, website)
	}

	rec.SetEmails(emails)
	if err := h.store.Put(ctx, key, rec); err != nil {
		h.log.Error("saving record failed", zap.String("slug", key), zap.Error(err))
		return failed(key, ReasonStore, err)
	}

	h.log.Info("found emails", zap.String("slug", key), zap.Strings("emails", emails))
	return ok(key, strings.Join(emails, ", "))
}
