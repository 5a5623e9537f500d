package esi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"indy_go/internal/infra"
)

// Client is the ESI REST client (Boundary Layer). All engine network
// traffic funnels through it. Requests are paced by a token-bucket limiter
// so a long material list cannot trip the ESI error limit; the limiter is
// independent of the transient-failure retry policy in orders.go.
type Client struct {
	baseURL       string
	datasource    string
	userAgent     string
	httpClient    *http.Client
	limiter       *rate.Limiter
	regionID      int32
	maxPages      int
	retryInterval time.Duration
	maxRetries    int
	logger        *slog.Logger
}

// NewClient creates a new ESI client from configuration.
func NewClient(cfg *infra.Config) *Client {
	return &Client{
		baseURL:    cfg.ESI.BaseURL,
		datasource: cfg.ESI.Datasource,
		userAgent:  cfg.ESI.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		limiter:       rate.NewLimiter(rate.Limit(cfg.ESI.RequestsPerSec), cfg.ESI.Burst),
		regionID:      cfg.Market.RegionID,
		maxPages:      cfg.Market.MaxPages,
		retryInterval: cfg.RetryInterval(),
		maxRetries:    cfg.Market.MaxRetries,
		logger:        slog.Default().With("module", "esi_client"),
	}
}

// do executes one request with limiter pacing and common headers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("datasource", c.datasource)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func truncateBody(b []byte) string {
	const max = 500
	if len(b) > max {
		return string(b[:max]) + "... (truncated)"
	}
	return string(b)
}
