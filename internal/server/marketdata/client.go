// Package marketdata fetches coin market data from CoinGecko and keeps a
// short-lived cache of the raw responses.
package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MarketQuery selects one page of the market listing.
type MarketQuery struct {
	Page    int
	PerPage int
	Order   string
}

// Key is the cache key of the query.
func (q MarketQuery) Key() string {
	return fmt.Sprintf("%d-%d-%s", q.Page, q.PerPage, q.Order)
}

// UpstreamError is a non-2xx answer from CoinGecko.
type UpstreamError struct {
	Status int
	Path   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("coingecko %s: status %d", e.Path, e.Status)
}

func (e *UpstreamError) Is(target error) bool { return target == common.ErrExternalService }

// maxBody caps how much of an upstream response is read.
const maxBody = 8 << 20

// Client is a thin CoinGecko REST client returning raw JSON bodies.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Markets fetches /coins/markets priced in USD.
func (c *Client) Markets(ctx context.Context, q MarketQuery) ([]byte, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", q.Order)
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("sparkline", "false")
	return c.get(ctx, "/coins/markets", params)
}

// Coin fetches /coins/{id} without localization, tickers, community or
// developer data.
func (c *Client) Coin(ctx context.Context, id string) ([]byte, error) {
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	return c.get(ctx, "/coins/"+url.PathEscape(id), params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("x_cg_demo_api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExternalService, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &UpstreamError{Status: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", common.ErrExternalService, err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("%w: %s: response larger than %d bytes", common.ErrExternalService, path, maxBody)
	}
	return body, nil
}
