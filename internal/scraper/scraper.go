package scraper

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

const (
	UserAgent   = "savedplaces/1.0 (github.com/pfrederiksen/savedplaces)"
	Timeout     = 60 * time.Second
	MaxBodySize = 5 << 20
)

// Scraper fetches place websites
type Scraper struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxBodySize caps how many bytes of a page are read
func WithMaxBodySize(n int64) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		if hc != nil {
			s.client = hc
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
		maxBody:   MaxBodySize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch downloads a page and returns its HTML as UTF-8 text.
// Transport failures wrap place.ErrNetwork and non-2xx responses wrap place.ErrHTTPStatus.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", eris.Wrap(place.NewError(place.ErrNetwork, err), "scraper: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", eris.Wrap(place.NewError(place.ErrNetwork, err), "scraper: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Wrap(
			place.NewError(place.ErrHTTPStatus, eris.Errorf("status %d", resp.StatusCode)),
			"scraper: fetch",
		)
	}

	var body io.Reader = io.LimitReader(resp.Body, s.maxBody)
	if decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type")); err == nil {
		body = decoded
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", eris.Wrap(place.NewError(place.ErrNetwork, err), "scraper: read body")
	}

	return string(data), nil
}
