// Package igems talks to the Intelligems analytics API.
package igems

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gemlens/gemlens/internal/analytics"
)

// Client provides read access to the Intelligems experiments API.
// Requests are spaced out and retried on 429 and server errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	requestDelay   time.Duration
	maxRetries     int
	retryBaseDelay time.Duration

	mu       sync.Mutex
	lastCall time.Time

	log zerolog.Logger
}

// Options tunes the client. Zero values fall back to conservative
// defaults matching the API's published rate limits.
type Options struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RequestDelay   time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	Logger         zerolog.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestDelay == 0 {
		opts.RequestDelay = time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = 5 * time.Second
	}
	return &Client{
		baseURL:        opts.BaseURL,
		apiKey:         opts.APIKey,
		httpClient:     &http.Client{Timeout: opts.Timeout},
		requestDelay:   opts.RequestDelay,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: opts.RetryBaseDelay,
		log:            opts.Logger,
	}
}

// ActiveExperiments lists currently running experiments.
func (c *Client) ActiveExperiments(ctx context.Context) ([]analytics.Experiment, error) {
	return c.experiences(ctx, "started", "experiment")
}

// EndedExperiments lists completed experiments.
func (c *Client) EndedExperiments(ctx context.Context) ([]analytics.Experiment, error) {
	return c.experiences(ctx, "ended", "experiment")
}

func (c *Client) experiences(ctx context.Context, status, category string) ([]analytics.Experiment, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if category != "" {
		params.Set("category", category)
	}

	var wrapper struct {
		ExperiencesList []experienceWire `json:"experiencesList"`
	}
	if err := c.get(ctx, "/experiences-list", params, &wrapper); err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}

	exps := make([]analytics.Experiment, 0, len(wrapper.ExperiencesList))
	for _, w := range wrapper.ExperiencesList {
		exps = append(exps, w.toExperiment())
	}
	return exps, nil
}

// ExperienceDetail fetches one experiment with its variations.
func (c *Client) ExperienceDetail(ctx context.Context, id string) (*analytics.Experiment, error) {
	body, err := c.getRaw(ctx, "/experiences/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching experience %s: %w", id, err)
	}

	// The detail endpoint wraps the object in some API versions and
	// returns it bare in others.
	var wrapper struct {
		Experience *experienceWire `json:"experience"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Experience != nil {
		exp := wrapper.Experience.toExperiment()
		return &exp, nil
	}

	var w experienceWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decoding experience %s: %w", id, err)
	}
	exp := w.toExperiment()
	return &exp, nil
}

// OverviewAnalytics fetches the unsegmented metric feed.
func (c *Client) OverviewAnalytics(ctx context.Context, id string) (analytics.Feed, error) {
	params := url.Values{"view": {"overview"}}
	return c.analytics(ctx, id, params)
}

// SegmentAnalytics fetches the feed broken down by one audience
// dimension, e.g. "device_type".
func (c *Client) SegmentAnalytics(ctx context.Context, id, dimension string) (analytics.Feed, error) {
	params := url.Values{"view": {"audience"}, "audience": {dimension}}
	return c.analytics(ctx, id, params)
}

// DateRangeAnalytics fetches the overview feed restricted to a window.
func (c *Client) DateRangeAnalytics(ctx context.Context, id string, start, end time.Time) (analytics.Feed, error) {
	params := url.Values{
		"view":      {"overview"},
		"startDate": {start.Format("2006-01-02")},
		"endDate":   {end.Format("2006-01-02")},
	}
	return c.analytics(ctx, id, params)
}

func (c *Client) analytics(ctx context.Context, id string, params url.Values) (analytics.Feed, error) {
	var wrapper struct {
		Metrics analytics.Feed `json:"metrics"`
	}
	if err := c.get(ctx, "/experiences/"+id+"/analytics", params, &wrapper); err != nil {
		return nil, fmt.Errorf("fetching analytics for %s: %w", id, err)
	}
	return wrapper.Metrics, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.getRaw(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// getRaw performs a throttled GET with retry on 429 and 5xx.
func (c *Client) getRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBaseDelay << (attempt - 1)
			c.log.Warn().
				Str("path", path).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.throttle(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("intelligems-access-token", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d from %s", resp.StatusCode, path)
		default:
			return nil, fmt.Errorf("status %d from %s: %s", resp.StatusCode, path, truncate(string(body), 200))
		}
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

// throttle enforces the minimum spacing between requests.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.lastCall.Add(c.requestDelay).Sub(now)
	if wait < 0 {
		wait = 0
	}
	// Claim the slot before sleeping so concurrent callers queue up.
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
