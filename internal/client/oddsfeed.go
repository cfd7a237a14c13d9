// Package client talks to the odds/schedule feed. The client applies a
// bounded timeout and rate limiting but never retries: a feed outage is
// surfaced as a single failure to the invoking job, which owns retry policy.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
	"pickpool/gradingd/internal/models"
)

// Client is the odds feed API client
type Client struct {
	baseURL     string
	apiKey      string
	sportKey    string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
}

// NewClient creates a new odds feed client
func NewClient(baseURL, apiKey, sportKey string, timeout time.Duration) *Client {
	// Max 10 concurrent requests against the feed
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		sportKey:    sportKey,
		rateLimiter: rateLimiter,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request to the feed with rate limiting
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	// Rate limiting: acquire semaphore
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.rateLimiter:
		defer func() { c.rateLimiter <- struct{}{} }()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Add("apiKey", c.apiKey)
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	log.Debug().
		Str("url", url).
		Str("method", req.Method).
		Msg("Making feed request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.FeedCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedCallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.FeedCallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.FeedCallsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("Feed request successful")

	return body, nil
}

// FetchOdds fetches upcoming games with spread markets attached
func (c *Client) FetchOdds(ctx context.Context) ([]models.RawGameRecord, error) {
	path := fmt.Sprintf("sports/%s/odds", c.sportKey)
	body, err := c.get(ctx, path, map[string]string{
		"regions":    "us",
		"markets":    "spreads",
		"oddsFormat": "american",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	var records []models.RawGameRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds: %w", err)
	}

	return records, nil
}

// FetchScores fetches recent games with score data. daysFrom controls how
// far back completed games are included.
func (c *Client) FetchScores(ctx context.Context, daysFrom int) ([]models.RawGameRecord, error) {
	path := fmt.Sprintf("sports/%s/scores", c.sportKey)
	body, err := c.get(ctx, path, map[string]string{
		"daysFrom": strconv.Itoa(daysFrom),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	var records []models.RawGameRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}

	return records, nil
}
