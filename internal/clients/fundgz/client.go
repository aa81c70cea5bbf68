// Package fundgz provides a client for the real-time fund valuation endpoint.
// The endpoint returns a JSONP body (`jsonpgz({...})`) with all values as
// strings; this client unwraps and normalizes it into a typed snapshot.
package fundgz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/textextract"
)

const (
	DefaultBaseURL   = "https://fundgz.1234567.com.cn"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second

	// The upstream rejects clients without browser-like headers.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://fund.eastmoney.com/"
)

// Client implements the ValuationClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
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

// NewClient creates a new valuation client.
// No API key is required — this is a public endpoint.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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

// GetValuation retrieves the intraday estimate snapshot for one fund.
// The gszzl field arrives as a percentage string ("0.24" == +0.24%) and is
// divided by 100 into a fraction. A payload without a fundcode is treated
// as a parse failure.
func (c *Client) GetValuation(ctx context.Context, code string) (*models.RealTimeValuation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/js/%s.js?rt=%d", c.baseURL, code, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	c.logger.Debug().Str("code", code).Msg("Valuation request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("valuation endpoint returned status %d for %s", resp.StatusCode, code)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	payload := textextract.ExtractJSONPPayload(string(body))
	if payload == nil {
		return nil, fmt.Errorf("unparsable valuation payload for %s", code)
	}

	fundCode := stringField(payload, "fundcode")
	if fundCode == "" {
		return nil, fmt.Errorf("valuation payload for %s missing fundcode", code)
	}

	valuation := &models.RealTimeValuation{
		Code:         fundCode,
		Name:         stringField(payload, "name"),
		NavDate:      stringField(payload, "jzrq"),
		EstimateTime: stringField(payload, "gztime"),
	}

	if nav, ok := floatField(payload, "dwjz"); ok {
		valuation.UnitNav = nav
	}
	if est, ok := floatField(payload, "gsz"); ok {
		valuation.EstimateNav = &est
	}
	if change, ok := floatField(payload, "gszzl"); ok {
		fraction := change / 100
		valuation.EstimateChangeFraction = &fraction
	}

	return valuation, nil
}

// stringField reads a string value from the payload, tolerating absence.
func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// floatField reads a numeric value that may arrive as a string or a number.
func floatField(payload map[string]any, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case string:
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	}
	return 0, false
}

// Ensure Client implements ValuationClient
var _ interfaces.ValuationClient = (*Client)(nil)
