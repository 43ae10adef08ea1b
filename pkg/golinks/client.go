package golinks

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
)

const (
	// userAgentFormat identifies the workflow to API operators
	userAgentFormat = "Alfred-Golinks/%s (%s)"

	requestTimeout = 30 * time.Second
)

// Client talks to a golinks search API.
type Client struct {
	apiURL    string
	userAgent string
	limiter   *rate.Limiter
	http      *http.Client
	logger    hclog.Logger
}

// ClientOption adjusts a Client at construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit replaces the default request limiter.
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// NewClient creates a client for the API at apiURL. The workflow
// version and help URL feed the User-Agent header.
func NewClient(apiURL, version, helpURL string, logger hclog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		apiURL:    apiURL,
		userAgent: fmt.Sprintf(userAgentFormat, version, helpURL),
		// The public API allows ~10K hits per day and IP; stay polite
		limiter: rate.NewLimiter(rate.Limit(5), 2),
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the API for short names matching query, returning at
// most limit answers. Clicked answers come first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Answer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	q := req.URL.Query()
	q.Set("short_name", query)
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying golinks API: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("🌐 API response", "status", resp.StatusCode, "url", req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("golinks API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Sites []Answer `json:"sites"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}

	answers := payload.Sites
	for i := range answers {
		// The API escapes HTML entities in names and URLs
		answers[i].Shortname = html.UnescapeString(answers[i].Shortname)
		answers[i].Link = html.UnescapeString(answers[i].Link)
	}
	SortByClicks(answers)

	c.logger.Debug("🔍 Answers fetched", "count", len(answers), "query", query)
	return answers, nil
}
