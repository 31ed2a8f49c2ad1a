// Package yahoo implements the primary equities market data provider on top
// of the public finance chart and search endpoints.
package yahoo

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"

	"finsight-api/pkg/market"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 15 * time.Second

	providerName = "yahoo"
)

// Client wraps the Yahoo Finance chart and search APIs.
type Client struct {
	name string
	rc   *resty.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.rc.SetBaseURL(u)
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

// NewClient constructs a Yahoo Finance client without transport retries.
func NewClient(opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0").
		SetRetryCount(0)
	c := &Client{name: providerName, rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements market.Provider.
func (c *Client) Name() string { return c.name }

// IntervalForDays implements the granularity policy: minute-level bars for a
// single day, hourly bars up to a month, daily bars beyond. Finer intervals
// on short windows maximise point density.
func IntervalForDays(days int) string {
	switch {
	case days <= 1:
		return "5m"
	case days <= 30:
		return "1h"
	default:
		return "1d"
	}
}

// rangeForDays maps a day count to the nearest supported range token.
func rangeForDays(days int) string {
	switch {
	case days <= 1:
		return "1d"
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func (c *Client) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResult, error) {
	var raw chartResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": interval,
			"range":    rng,
		}).
		SetResult(&raw).
		Get("/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return nil, market.ClassifyTransport(c.name, err)
	}
	if resp.IsError() {
		return nil, market.ClassifyHTTPStatus(c.name, resp.StatusCode(), resp.String())
	}
	if raw.Chart.Error != nil {
		desc := raw.Chart.Error.Description
		if strings.EqualFold(raw.Chart.Error.Code, "not found") || strings.Contains(strings.ToLower(desc), "no data found") {
			return nil, market.NotFoundErr(symbol)
		}
		return nil, market.UpstreamErr(c.name, desc)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, market.NotFoundErr(symbol)
	}
	return &raw.Chart.Result[0], nil
}

// Candles fetches the chart for the requested window, choosing interval and
// range from the day count. Null bars (holidays, halts) are skipped here;
// shape validation happens downstream.
func (c *Client) Candles(ctx context.Context, symbol string, days int) ([]market.Candle, error) {
	if days <= 0 {
		days = 1
	}
	result, err := c.fetchChart(ctx, symbol, IntervalForDays(days), rangeForDays(days))
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, market.NoDataErr(symbol)
	}

	quote := result.Indicators.Quote[0]
	candles := make([]market.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := deref(quote.Open, i)
		h := deref(quote.High, i)
		l := deref(quote.Low, i)
		cl := deref(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue
		}
		candles = append(candles, market.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: deref(quote.Volume, i),
		})
	}
	return candles, nil
}

// Quote derives the live quote from the one-day chart metadata.
func (c *Client) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
	result, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	price := result.Meta.RegularMarketPrice
	if price <= 0 {
		return nil, market.NoDataErr(symbol)
	}
	var change float64
	if prev := result.Meta.ChartPreviousClose; prev > 0 {
		change = (price - prev) / prev * 100
	}
	return &market.Quote{Price: price, Change24h: change}, nil
}

// Metadata returns the display name reported by the chart metadata. Yahoo
// serves no logos; the fetch layer falls back to generic logo sources.
func (c *Client) Metadata(ctx context.Context, symbol string) (*market.AssetMeta, error) {
	result, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	return &market.AssetMeta{Name: name}, nil
}

// Search queries the symbol search endpoint, keeping equity-type quotes.
func (c *Client) Search(ctx context.Context, query string) ([]market.SearchHit, error) {
	var raw searchResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           query,
			"quotesCount": "10",
		}).
		SetResult(&raw).
		Get("/v1/finance/search")
	if err != nil {
		return nil, market.ClassifyTransport(c.name, err)
	}
	if resp.IsError() {
		return nil, market.ClassifyHTTPStatus(c.name, resp.StatusCode(), resp.String())
	}

	hits := make([]market.SearchHit, 0, len(raw.Quotes))
	for _, q := range raw.Quotes {
		if q.QuoteType != "" && !strings.EqualFold(q.QuoteType, "EQUITY") {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		hits = append(hits, market.SearchHit{ID: q.Symbol, Symbol: q.Symbol, Name: name})
	}
	return hits, nil
}

func deref(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}
