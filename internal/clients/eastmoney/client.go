// Package eastmoney provides clients for the historical NAV endpoint
// (an HTML table, sometimes wrapped in a JS object literal) and the
// pingzhongdata static-detail endpoint (loose JS source).
package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
)

const (
	DefaultHistoryBaseURL = "https://fund.eastmoney.com/f10/F10DataApi.aspx"
	DefaultDetailBaseURL  = "https://fund.eastmoney.com/pingzhongdata"
	DefaultTimeout        = 15 * time.Second
	DefaultRateLimit      = 5 // requests per second

	// The endpoint's own period filters are unreliable; fetch a generously
	// large row count and filter client-side instead.
	historyRowCount = 4000

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://fund.eastmoney.com/"
)

// Client implements the HistoryClient and FundInfoClient interfaces
type Client struct {
	historyBaseURL string
	detailBaseURL  string
	httpClient     *http.Client
	logger         *common.Logger
	limiter        *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHistoryBaseURL sets the historical NAV base URL
func WithHistoryBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.historyBaseURL = baseURL
	}
}

// WithDetailBaseURL sets the pingzhongdata base URL
func WithDetailBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.detailBaseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new eastmoney client.
// No API key is required — these are public endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		historyBaseURL: DefaultHistoryBaseURL,
		detailBaseURL:  DefaultDetailBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// getText performs a rate-limited GET returning the raw body as text.
func (c *Client) getText(ctx context.Context, reqURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func (c *Client) historyURL(code string) string {
	params := url.Values{}
	params.Set("type", "lsjz")
	params.Set("code", code)
	params.Set("page", "1")
	params.Set("per", fmt.Sprintf("%d", historyRowCount))
	params.Set("sdate", "")
	params.Set("edate", "")
	return fmt.Sprintf("%s?%s", c.historyBaseURL, params.Encode())
}

func (c *Client) detailURL(code string) string {
	return fmt.Sprintf("%s/%s.js?v=%d", c.detailBaseURL, code, time.Now().UnixMilli())
}

// Ensure Client implements both adapter interfaces
var (
	_ interfaces.HistoryClient  = (*Client)(nil)
	_ interfaces.FundInfoClient = (*Client)(nil)
)
