// Package provider implements the read-only client for the change-point
// analysis API. The API exposes five endpoints (prices, change points,
// events, associations, and metrics), each returning a JSON envelope with a
// "status" discriminator.
//
// Two failure modes are distinguished deliberately:
//   - transport or decode failures return a wrapped error (fatal for that
//     fetch, surfaced to the caller);
//   - a response that arrives intact but carries a non-"success" status
//     returns ErrNoData, which callers treat as "no data for this slice"
//     and keep whatever they already had.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/brentlens/brentlens/internal/models"
)

// ErrNoData signals a well-formed response whose status was not "success".
// The affected state slice simply keeps its previous value.
var ErrNoData = errors.New("provider returned no data for this slice")

// statusSuccess is the envelope discriminator for a populated response.
const statusSuccess = "success"

// Client provides access to the analysis API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new analysis API client.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// envelope is the common response wrapper for the list endpoints.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// metricsEnvelope is the response shape of /metrics, which inlines its
// sections at the top level instead of using a data array.
type metricsEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	models.Metrics
}

// FetchPrices retrieves the price series for the given date range.
func (c *Client) FetchPrices(ctx context.Context, r models.DateRange) ([]models.PricePoint, error) {
	q := url.Values{}
	q.Set("start_date", r.Start.String())
	q.Set("end_date", r.End.String())

	var prices []models.PricePoint
	if err := c.getList(ctx, "/prices", q, &prices); err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	return prices, nil
}

// FetchChangePoints retrieves all detected change points. Change points are a
// global dataset; they are not scoped by the active date range.
func (c *Client) FetchChangePoints(ctx context.Context) ([]models.ChangePoint, error) {
	var cps []models.ChangePoint
	if err := c.getList(ctx, "/changepoints", nil, &cps); err != nil {
		return nil, fmt.Errorf("fetch change points: %w", err)
	}
	return cps, nil
}

// FetchEvents retrieves the curated events within the given date range.
func (c *Client) FetchEvents(ctx context.Context, r models.DateRange) ([]models.Event, error) {
	q := url.Values{}
	q.Set("start_date", r.Start.String())
	q.Set("end_date", r.End.String())

	var events []models.Event
	if err := c.getList(ctx, "/events", q, &events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

// FetchAssociations retrieves the server-resolved event/change-point links
// computed under a ±windowDays match. Associations are a global dataset.
func (c *Client) FetchAssociations(ctx context.Context, windowDays int) ([]models.Association, error) {
	q := url.Values{}
	q.Set("window_days", strconv.Itoa(windowDays))

	var assocs []models.Association
	if err := c.getList(ctx, "/associations", q, &assocs); err != nil {
		return nil, fmt.Errorf("fetch associations: %w", err)
	}
	return assocs, nil
}

// FetchMetrics retrieves the dataset summary statistics. Missing sections in
// the response decode to nil pointers; consumers render placeholders for them.
func (c *Client) FetchMetrics(ctx context.Context) (*models.Metrics, error) {
	body, err := c.get(ctx, "/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}

	var env metricsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("fetch metrics: decode response: %w", err)
	}
	if env.Status != statusSuccess {
		return nil, fmt.Errorf("fetch metrics: status %q: %w", env.Status, ErrNoData)
	}
	m := env.Metrics
	return &m, nil
}

// getList fetches an envelope-wrapped endpoint and decodes its data array.
func (c *Client) getList(ctx context.Context, path string, q url.Values, out interface{}) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status != statusSuccess {
		return fmt.Errorf("status %q (%s): %w", env.Status, env.Message, ErrNoData)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// get performs a GET with retry on transport failures and 5xx responses.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelayBase * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
