package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pfrederiksen/savedplaces/internal/logger"
	"github.com/pfrederiksen/savedplaces/internal/place"
	"github.com/pfrederiksen/savedplaces/internal/report"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

// AggregatorOptions configures an Aggregator
type AggregatorOptions struct {
	// Filter enables denylist filtering of email addresses
	Filter bool
	// Denylist holds email domains excluded when Filter is set
	Denylist []string
}

// Aggregator builds report rows from stored records
type Aggregator struct {
	store storage.Store
	opts  AggregatorOptions
	log   *zap.Logger
}

// NewAggregator creates an Aggregator
func NewAggregator(store storage.Store, opts AggregatorOptions, log *zap.Logger) *Aggregator {
	return &Aggregator{
		store: store,
		opts:  opts,
		log:   logger.OrNop(log),
	}
}

// Run returns one contact per readable record, in key order.
// Records that cannot be decoded are skipped and reported in the summary.
func (a *Aggregator) Run(ctx context.Context) ([]report.Contact, *Summary, error) {
	s := newSummary(StageExport)
	defer s.finish()

	keys, err := a.store.Keys(ctx)
	if err != nil {
		return nil, s, eris.Wrap(err, "export: listing records")
	}

	var denylist []string
	if a.opts.Filter {
		denylist = a.opts.Denylist
	}

	contacts := make([]report.Contact, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return contacts, s, eris.Wrap(err, "export: stopped")
		}

		rec, err := a.store.Get(ctx, key)
		if err != nil {
			a.log.Error("reading record failed", zap.String("slug", key), zap.Error(err))
			s.add(failed(key, place.Reason(err), err))
			continue
		}

		c := ContactFromRecord(key, rec, denylist)
		contacts = append(contacts, c)
		s.add(ok(key, c.Name))
	}

	return contacts, s, nil
}

// ContactFromRecord flattens a record into a report row.
// The name falls back to the key when the record has none.
func ContactFromRecord(key string, rec place.Record, denylist []string) report.Contact {
	name := rec.Name()
	if name == "" {
		name = key
	}
	return report.Contact{
		Key:     key,
		Name:    name,
		Address: rec.Address(),
		Phone:   rec.Phone(),
		Emails:  FilterEmails(rec.Emails(), denylist),
	}
}

// FilterEmails drops addresses whose domain is on the denylist
func FilterEmails(emails, denylist []string) []string {
	kept := make([]string, 0, len(emails))
	for _, e := range emails {
		if !Denied(e, denylist) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Denied reports whether the email's domain equals a denylist entry or is a
// subdomain of one. Comparison ignores case.
func Denied(email string, denylist []string) bool {
	domain := strings.ToLower(strings.TrimSpace(email))
	if at := strings.LastIndex(domain, "@"); at >= 0 {
		domain = domain[at+1:]
	}

	for _, entry := range denylist {
		entry = strings.TrimLeft(strings.ToLower(strings.TrimSpace(entry)), "@.")
		if entry == "" {
			continue
		}
		if domain == entry || strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}
