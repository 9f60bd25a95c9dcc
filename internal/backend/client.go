// Package backend is the client for the stock screening API that computes
// scans and per-stock analysis.
package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/newthinker/screener/internal/core"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Endpoint names, used for logging and metrics.
const (
	EndpointScan      = "scan"
	EndpointStock     = "stock"
	EndpointUpdate    = "update"
	EndpointWatchlist = "watchlist"
)

// Config holds client settings.
type Config struct {
	BaseURL        string
	Timeout        time.Duration // zero means no client-side timeout
	RequestsPerSec float64       // zero means unlimited
	UserAgent      string
}

// Observer receives one call per completed request.
type Observer func(endpoint, status string, seconds float64)

// Client talks to the screening backend. It never retries.
type Client struct {
	client   *resty.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
	observer Observer
}

// New creates a backend client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))
	client.SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRetryCount(0)

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := int(cfg.RequestsPerSec)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// SetObserver registers a per-request observer (metrics).
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// Scan calls GET /api/scan. Any non-2xx status is a network failure.
func (c *Client) Scan(ctx context.Context) (*core.ScanResult, error) {
	var result core.ScanResult
	resp, err := c.do(ctx, EndpointScan, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&result).Get("/api/scan")
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, core.WrapError(core.ErrNetwork, &core.HTTPStatusError{StatusCode: resp.StatusCode()})
	}
	return &result, nil
}

// StockDetail calls GET /api/stock/{symbol}. A non-2xx status whose body is
// a failure payload is returned as that payload so the caller can show the
// backend's message. A bare 404 is ErrSymbolNotFound, still matching
// ErrNetwork.
func (c *Client) StockDetail(ctx context.Context, symbol string) (*core.DetailResult, error) {
	var result, failure core.DetailResult
	resp, err := c.do(ctx, EndpointStock, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("symbol", symbol).
			SetResult(&result).
			SetError(&failure).
			Get("/api/stock/{symbol}")
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if !failure.Success && failure.Error != "" {
			return &failure, nil
		}
		err := core.WrapError(core.ErrNetwork, &core.HTTPStatusError{StatusCode: resp.StatusCode()})
		if resp.StatusCode() == http.StatusNotFound {
			return nil, core.WrapError(core.ErrSymbolNotFound, err)
		}
		return nil, err
	}
	return &result, nil
}

// Update calls GET /api/update.
func (c *Client) Update(ctx context.Context) (*core.UpdateResult, error) {
	var result, failure core.UpdateResult
	resp, err := c.do(ctx, EndpointUpdate, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&result).SetError(&failure).Get("/api/update")
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if !failure.Success && failure.Error != "" {
			return &failure, nil
		}
		return nil, core.WrapError(core.ErrNetwork, &core.HTTPStatusError{StatusCode: resp.StatusCode()})
	}
	return &result, nil
}

// AddToWatchlist calls POST /api/watchlist with {"symbol": symbol}.
func (c *Client) AddToWatchlist(ctx context.Context, symbol string) (*core.WatchlistResult, error) {
	var result, failure core.WatchlistResult
	resp, err := c.do(ctx, EndpointWatchlist, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"symbol": symbol}).
			SetResult(&result).
			SetError(&failure).
			Post("/api/watchlist")
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if !failure.Success && failure.Error != "" {
			return &failure, nil
		}
		return nil, core.WrapError(core.ErrNetwork, &core.HTTPStatusError{StatusCode: resp.StatusCode()})
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, endpoint string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, core.WrapError(core.ErrNetwork, err)
	}

	start := time.Now()
	resp, err := send(c.client.R().SetContext(ctx))
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer(endpoint, statusLabel(resp, err), elapsed.Seconds())
	}

	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrNetwork, err)
	}

	c.logger.Debug("backend request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}

func statusLabel(resp *resty.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	switch code := resp.StatusCode(); {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
