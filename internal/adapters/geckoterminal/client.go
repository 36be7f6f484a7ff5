// Package geckoterminal implements a thin client for the pool/token
// market-data REST API, keyed by a fixed network identifier.
package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"pepuhub/internal/adapters/config"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

// API defines the market-data operations the assistant consumes.
// The concrete client is substituted with a fake in tests.
type API interface {
	SearchPools(ctx context.Context, query string) ([]Pool, error)
	TrendingPools(ctx context.Context) ([]Pool, error)
	NewPools(ctx context.Context) ([]Pool, error)
	TopPools(ctx context.Context, page int) ([]Pool, error)
	Pool(ctx context.Context, address string) (*Pool, error)
	Token(ctx context.Context, address string) (*Token, error)
	TokenPools(ctx context.Context, address string) ([]Pool, error)
	OHLCV(ctx context.Context, poolAddress, timeframe string, aggregate, limit int) ([]Candle, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    string
	network    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a market-data API client.
func NewClient(cfg config.MarketDataConfig) *Client {
	perSecond := cfg.ReqPerMinute / 60.0
	if perSecond <= 0 {
		perSecond = 0.5
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		network:    cfg.Network,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 5),
		log:        logger.Get().With("component", "geckoterminal", "network", cfg.Network),
	}
}

// SearchPools searches pools on the configured network.
func (c *Client) SearchPools(ctx context.Context, query string) ([]Pool, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("network", c.network)
	return c.getPools(ctx, "search_pools", "/search/pools", q)
}

// TrendingPools returns the network's trending pools.
func (c *Client) TrendingPools(ctx context.Context) ([]Pool, error) {
	path := fmt.Sprintf("/networks/%s/trending_pools", c.network)
	return c.getPools(ctx, "trending_pools", path, nil)
}

// NewPools returns recently created pools.
func (c *Client) NewPools(ctx context.Context) ([]Pool, error) {
	path := fmt.Sprintf("/networks/%s/new_pools", c.network)
	return c.getPools(ctx, "new_pools", path, nil)
}

// TopPools returns one page of pools ordered by 24h volume.
func (c *Client) TopPools(ctx context.Context, page int) ([]Pool, error) {
	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/networks/%s/pools", c.network)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "h24_volume_usd_desc")
	return c.getPools(ctx, "top_pools", path, q)
}

// Pool fetches a single pool by address.
func (c *Client) Pool(ctx context.Context, address string) (*Pool, error) {
	path := fmt.Sprintf("/networks/%s/pools/%s", c.network, address)

	var envelope struct {
		Data *resource `json:"data"`
	}
	if err := c.get(ctx, "pool", path, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "pool %s: empty data", address)
	}

	pool := envelope.Data.toPool(c.network)
	return &pool, nil
}

// Token fetches a single token record by contract address.
func (c *Client) Token(ctx context.Context, address string) (*Token, error) {
	path := fmt.Sprintf("/networks/%s/tokens/%s", c.network, address)

	var envelope struct {
		Data *resource `json:"data"`
	}
	if err := c.get(ctx, "token", path, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "token %s: empty data", address)
	}

	token := envelope.Data.toToken()
	return &token, nil
}

// TokenPools fetches the pools a token trades in.
func (c *Client) TokenPools(ctx context.Context, address string) ([]Pool, error) {
	path := fmt.Sprintf("/networks/%s/tokens/%s/pools", c.network, address)
	return c.getPools(ctx, "token_pools", path, nil)
}

// OHLCV fetches candles for a pool. Timeframe is "minute", "hour" or
// "day"; aggregate and limit map to the API's query parameters.
func (c *Client) OHLCV(ctx context.Context, poolAddress, timeframe string, aggregate, limit int) ([]Candle, error) {
	path := fmt.Sprintf("/networks/%s/pools/%s/ohlcv/%s", c.network, poolAddress, timeframe)
	q := url.Values{}
	if aggregate > 0 {
		q.Set("aggregate", strconv.Itoa(aggregate))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var envelope struct {
		Data *struct {
			Attributes ohlcvAttributes `json:"attributes"`
		} `json:"data"`
	}
	if err := c.get(ctx, "ohlcv", path, q, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "ohlcv %s: empty data", poolAddress)
	}

	candles := make([]Candle, 0, len(envelope.Data.Attributes.OHLCVList))
	for _, row := range envelope.Data.Attributes.OHLCVList {
		if len(row) < 6 {
			continue
		}
		candles = append(candles, Candle{
			Timestamp: int64(row[0]),
			Open:      row[1],
			High:      row[2],
			Low:       row[3],
			Close:     row[4],
			Volume:    row[5],
		})
	}
	return candles, nil
}

func (c *Client) getPools(ctx context.Context, endpoint, path string, query url.Values) ([]Pool, error) {
	var envelope struct {
		Data []resource `json:"data"`
	}
	if err := c.get(ctx, endpoint, path, query, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s: empty data", endpoint)
	}

	pools := make([]Pool, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		pools = append(pools, r.toPool(c.network))
	}
	return pools, nil
}

// get performs one API request. A non-2xx status or a missing data
// envelope is reported as ErrUnavailable: upstream outages degrade the
// assistant, they never crash it.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "market data rate limiter")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "network_error").Observe(time.Since(start).Seconds())
		return errors.Wrapf(errors.ErrUnavailable, "%s: %v", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debugw("upstream returned non-2xx", "endpoint", endpoint, "status", resp.StatusCode)
		return errors.Wrapf(errors.ErrUnavailable, "%s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "%s: read body: %v", endpoint, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "%s: decode: %v", endpoint, err)
	}
	return nil
}
