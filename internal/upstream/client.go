// Package upstream fetches district records from the data.gov.in resource API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultBaseURL     = "https://api.data.gov.in/resource"
	DefaultResourceID  = "ee03643a-ee4c-48c2-ac30-9f2ff26ab722"
	DefaultFormat      = "json"
	DefaultPageLimit   = 1000
	DefaultTimeout     = 20 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoffStep = 2 * time.Second
	DefaultMaxBytes    = 100 << 20

	userAgent = "nrega-dashboard/1.0"
)

// ErrResponseTooLarge is returned when the body exceeds the configured cap.
var ErrResponseTooLarge = errors.New("upstream response exceeds size limit")

// HTTPError is a non-2xx upstream reply.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %s", e.Status)
}

// Config controls the client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL          string
	ResourceID       string
	APIKey           string
	Format           string
	PageLimit        int
	Timeout          time.Duration
	BackoffStep      time.Duration
	MaxResponseBytes int64
}

// Query selects the records to fetch. An empty FinYear fetches all years.
type Query struct {
	Region  string
	FinYear string
}

// Client is a retrying HTTP fetcher. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient applies defaults to cfg. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ResourceID == "" {
		cfg.ResourceID = DefaultResourceID
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = DefaultBackoffStep
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxBytes
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Fetch runs up to maxAttempts requests, waiting step*attempt between them.
// It never returns an error: the outcome is carried by FetchResult.Status.
func (c *Client) Fetch(ctx context.Context, q Query, maxAttempts int) FetchResult {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	attempts := 0
	operation := func() ([]v1.Record, error) {
		attempts++
		slog.Info("[Upstream] Fetching",
			"region", q.Region,
			"fin_year", q.FinYear,
			"attempt", attempts,
			"max_attempts", maxAttempts)

		records, err := c.fetchOnce(ctx, q)
		if err != nil {
			attemptsTotal.WithLabelValues(outcomeError).Inc()
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		attemptsTotal.WithLabelValues(outcomeOK).Inc()
		return records, nil
	}

	records, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&linearBackOff{step: c.cfg.BackoffStep}),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Warn("[Upstream] Attempt failed",
				"region", q.Region,
				"attempt", attempts,
				"max_attempts", maxAttempts,
				"retry_in", wait,
				"error", err)
		}),
	)
	if err != nil {
		slog.Error("[Upstream] All attempts exhausted",
			"region", q.Region,
			"fin_year", q.FinYear,
			"attempts", attempts,
			"error", err)
		return FetchResult{Status: StatusFailed, Attempts: attempts, Err: err}
	}

	slog.Info("[Upstream] Fetched", "region", q.Region, "count", len(records))
	if len(records) == 0 {
		return FetchResult{Status: StatusEmpty, Records: []v1.Record{}, Attempts: attempts}
	}
	return FetchResult{Status: StatusFetched, Records: records, Attempts: attempts}
}

// fetchOnce performs a single bounded request.
func (c *Client) fetchOnce(ctx context.Context, q Query) ([]v1.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxResponseBytes {
		return nil, ErrResponseTooLarge
	}

	var payload struct {
		Records []v1.Record `json:"records"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Records, nil
}

func (c *Client) requestURL(q Query) string {
	params := url.Values{}
	params.Set("api-key", c.cfg.APIKey)
	params.Set("format", c.cfg.Format)
	params.Set("filters[state_name]", q.Region)
	params.Set("limit", strconv.Itoa(c.cfg.PageLimit))
	if q.FinYear != "" {
		params.Set("filters[fin_year]", q.FinYear)
	}
	return c.cfg.BaseURL + "/" + url.PathEscape(c.cfg.ResourceID) + "?" + params.Encode()
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.step * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}
