// internal/adapters/places/client.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"smarttravel/internal/adapters/observability"
	"smarttravel/internal/domain"
)

const (
	DefaultBase = "https://maps.googleapis.com/maps/api/place"

	DefaultSearchTimeout  = 30 * time.Second
	DefaultDetailsTimeout = 20 * time.Second
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter

	searchTimeout  time.Duration
	detailsTimeout time.Duration
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("places API key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:           strings.TrimRight(base, "/"),
		hc:             &http.Client{},
		key:            key,
		rl:             rate.NewLimiter(rate.Limit(rps), rps),
		searchTimeout:  DefaultSearchTimeout,
		detailsTimeout: DefaultDetailsTimeout,
	}, nil
}

// WithTimeouts overrides the per-call deadlines; zero keeps the current value.
func (c *Client) WithTimeouts(search, details time.Duration) *Client {
	if search > 0 {
		c.searchTimeout = search
	}
	if details > 0 {
		c.detailsTimeout = details
	}
	return c
}

// ---- Public API ----

type searchResponse struct {
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message"`
	Results      []map[string]any `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		Reviews []struct {
			Text string `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
}

// TextSearch returns raw result objects. ZERO_RESULTS is an empty list, not an error.
func (c *Client) TextSearch(ctx context.Context, query string) ([]map[string]any, error) {
	q := url.Values{"query": {query}, "key": {c.key}}
	var out searchResponse
	if err := c.get(ctx, "textsearch", c.base+"/textsearch/json?"+q.Encode(), c.searchTimeout, &out); err != nil {
		return nil, err
	}
	if err := statusErr(out.Status, out.ErrorMessage); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return []map[string]any{}, nil
	}
	return out.Results, nil
}

func (c *Client) PlacePhotos(ctx context.Context, placeID string) ([]string, error) {
	d, err := c.details(ctx, placeID, "photos")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(d.Result.Photos))
	for _, p := range d.Result.Photos {
		if p.PhotoReference != "" {
			out = append(out, p.PhotoReference)
		}
	}
	return out, nil
}

// PlaceReviews returns review texts in provider relevance order (at most five).
func (c *Client) PlaceReviews(ctx context.Context, placeID string) ([]string, error) {
	d, err := c.details(ctx, placeID, "reviews")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(d.Result.Reviews))
	for _, r := range d.Result.Reviews {
		if t := strings.TrimSpace(r.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// ---- Internals ----

func (c *Client) details(ctx context.Context, placeID, fields string) (detailsResponse, error) {
	q := url.Values{"place_id": {placeID}, "fields": {fields}, "key": {c.key}}
	var out detailsResponse
	if err := c.get(ctx, "details", c.base+"/details/json?"+q.Encode(), c.detailsTimeout, &out); err != nil {
		return detailsResponse{}, err
	}
	if err := statusErr(out.Status, out.ErrorMessage); err != nil {
		return detailsResponse{}, err
	}
	return out, nil
}

// statusErr maps the payload-level status the provider reports alongside HTTP 200.
func statusErr(status, msg string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "REQUEST_DENIED":
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case "OVER_QUERY_LIMIT":
		return domain.ErrRateLimited
	case "INVALID_REQUEST":
		return fmt.Errorf("%w: invalid request: %s", domain.ErrUpstream, msg)
	default:
		return fmt.Errorf("%w: status %s: %s", domain.ErrUpstream, status, msg)
	}
}

// get performs a single rate-limited GET bounded by timeout and decodes JSON into
// out. No retries. Limiter waits do not count against the timeout.
func (c *Client) get(ctx context.Context, endpoint, u string, timeout time.Duration, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "smarttravel/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, endpoint, err)
		}
		return nil
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: bad status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
