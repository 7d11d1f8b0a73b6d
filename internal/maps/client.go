package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"
	DetailsPath    = "/maps/api/place/details/json"
	DefaultTimeout = 30 * time.Second
)

// Client is a client for the Place Details API
type Client struct {
	apiKey     string
	baseURL    string
	fields     []string
	language   string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithBaseURL overrides the default API base URL
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithFields restricts the response to the given fields (e.g. "name", "website")
func WithFields(fields ...string) Option {
	return func(c *Client) {
		c.fields = fields
	}
}

// WithLanguage sets the language results are returned in
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// NewClient creates a new Place Details API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// detailsResponse is the API envelope
type detailsResponse struct {
	Result       place.Record `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

// Details fetches the place with the given cid and returns its "result" object.
// Errors wrap place.ErrNetwork, place.ErrHTTPStatus or place.ErrDecode.
func (c *Client) Details(ctx context.Context, cid uint64) (place.Record, error) {
	// Build query parameters
	params := url.Values{}
	params.Set("cid", strconv.FormatUint(cid, 10))
	params.Set("key", c.apiKey)
	if len(c.fields) > 0 {
		params.Set("fields", strings.Join(c.fields, ","))
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, DetailsPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(place.NewError(place.ErrNetwork, err), "maps: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(place.NewError(place.ErrNetwork, err), "maps: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(place.NewError(place.ErrNetwork, err), "maps: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Wrap(
			place.NewError(place.ErrHTTPStatus, eris.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))),
			"maps: details",
		)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var result detailsResponse
	if err := dec.Decode(&result); err != nil {
		return nil, eris.Wrap(place.NewError(place.ErrDecode, err), "maps: unmarshal response")
	}

	if result.Result == nil {
		msg := "response has no result"
		if result.Status != "" {
			msg = fmt.Sprintf("%s (status %s", msg, result.Status)
			if result.ErrorMessage != "" {
				msg += ": " + result.ErrorMessage
			}
			msg += ")"
		}
		return nil, eris.Wrap(place.NewError(place.ErrDecode, eris.New(msg)), "maps: details")
	}

	return result.Result, nil
}

// truncate shortens an error body for logging
func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
