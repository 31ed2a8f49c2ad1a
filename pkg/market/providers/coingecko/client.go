// Package coingecko implements the crypto market data provider.
package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"finsight-api/pkg/market"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	defaultTimeout = 10 * time.Second

	// MaxOHLCDays is the provider's history ceiling. Requests for longer
	// windows are clamped, never rejected.
	MaxOHLCDays = 365

	providerName = "coingecko"
)

// Client wraps the CoinGecko REST API.
type Client struct {
	name string
	rc   *resty.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.rc.SetBaseURL(url)
		}
	}
}

// WithTimeout overrides the per-request hard deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rc.SetTimeout(d)
		}
	}
}

// WithTransport injects a transport, used by tests to replay cassettes.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.rc.SetTransport(rt)
		}
	}
}

// WithAPIKey attaches a demo/pro API key header when configured.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.rc.SetHeader("x-cg-demo-api-key", key)
		}
	}
}

// NewClient constructs a CoinGecko client. Retries are deliberately disabled:
// rate-limit recovery belongs to the cache layer, not the transport.
func NewClient(opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	c := &Client{name: providerName, rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements market.Provider.
func (c *Client) Name() string { return c.name }

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	req := c.rc.R().SetContext(ctx).SetResult(out)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return market.ClassifyTransport(c.name, err)
	}
	if resp.IsError() {
		return market.ClassifyHTTPStatus(c.name, resp.StatusCode(), resp.String())
	}
	return nil
}

// OHLC fetches candles for the asset id, clamping days to MaxOHLCDays.
// CoinGecko's /ohlc endpoint carries no volume, so Volume stays zero.
func (c *Client) OHLC(ctx context.Context, assetID string, days int) ([]market.Candle, error) {
	if days <= 0 {
		days = 1
	}
	if days > MaxOHLCDays {
		days = MaxOHLCDays
	}
	var raw ohlcResponse
	err := c.get(ctx, fmt.Sprintf("/coins/%s/ohlc", assetID), map[string]string{
		"vs_currency": "usd",
		"days":        fmt.Sprintf("%d", days),
	}, &raw)
	if err != nil {
		return nil, err
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, row := range raw {
		candles = append(candles, market.Candle{
			Time:  time.UnixMilli(int64(row[0])).UTC(),
			Open:  row[1],
			High:  row[2],
			Low:   row[3],
			Close: row[4],
		})
	}
	return candles, nil
}

// Quote returns the current USD price and 24h percentage change.
func (c *Client) Quote(ctx context.Context, assetID string) (*market.Quote, error) {
	var raw simplePriceResponse
	err := c.get(ctx, "/simple/price", map[string]string{
		"ids":                 assetID,
		"vs_currencies":       "usd",
		"include_24hr_change": "true",
	}, &raw)
	if err != nil {
		return nil, err
	}
	entry, ok := raw[strings.ToLower(assetID)]
	if !ok {
		return nil, market.NotFoundErr(assetID)
	}
	return &market.Quote{
		Price:     entry["usd"],
		Change24h: entry["usd_24h_change"],
	}, nil
}

// Metadata returns display name and logo for the asset id.
func (c *Client) Metadata(ctx context.Context, assetID string) (*market.AssetMeta, error) {
	var raw coinResponse
	err := c.get(ctx, fmt.Sprintf("/coins/%s", assetID), map[string]string{
		"localization":   "false",
		"tickers":        "false",
		"market_data":    "false",
		"community_data": "false",
		"developer_data": "false",
	}, &raw)
	if err != nil {
		return nil, err
	}
	logo := raw.Image.Small
	if logo == "" {
		logo = raw.Image.Large
	}
	return &market.AssetMeta{Name: raw.Name, LogoURL: logo}, nil
}

// Search queries the coin search endpoint.
func (c *Client) Search(ctx context.Context, query string) ([]market.SearchHit, error) {
	var raw searchResponse
	if err := c.get(ctx, "/search", map[string]string{"query": query}, &raw); err != nil {
		return nil, err
	}
	hits := make([]market.SearchHit, 0, len(raw.Coins))
	for _, coin := range raw.Coins {
		hits = append(hits, market.SearchHit{
			ID:     coin.ID,
			Symbol: strings.ToUpper(coin.Symbol),
			Name:   coin.Name,
		})
	}
	return hits, nil
}
