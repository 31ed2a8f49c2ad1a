// Package polygon implements the optional secondary equities provider against
// the aggregates API. It requires an API key and serves candles only; the
// fetch layer falls through to the primary provider on any failure.
package polygon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"

	"finsight-api/pkg/market"
)

const (
	defaultBaseURL = "https://api.polygon.io"
	defaultTimeout = 10 * time.Second

	providerName = "polygon"
)

// ErrMissingAPIKey is returned when the provider is built without a key.
var ErrMissingAPIKey = errors.New("polygon: api key is required")

// Client wraps the polygon aggregates API.
type Client struct {
	name   string
	apiKey string
	rc     *resty.Client
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

// NewClient constructs a polygon client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	rc := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	c := &Client{name: providerName, apiKey: apiKey, rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements market.Provider.
func (c *Client) Name() string { return c.name }

// aggsResponse mirrors the /v2/aggs payload.
type aggsResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Results []struct {
		T int64   `json:"t"` // bucket start, ms
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
}

// timespanForDays maps the requested window to bar granularity: minute bars
// for one day, hourly up to a month, daily beyond.
func timespanForDays(days int) (multiplier int, timespan string) {
	switch {
	case days <= 1:
		return 5, "minute"
	case days <= 30:
		return 1, "hour"
	default:
		return 1, "day"
	}
}

// Aggregates fetches candles for the symbol over the requested day window.
func (c *Client) Aggregates(ctx context.Context, symbol string, days int) ([]market.Candle, error) {
	if days <= 0 {
		days = 1
	}
	multiplier, timespan := timespanForDays(days)
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/%d/%s/%s/%s",
		url.PathEscape(strings.ToUpper(symbol)),
		multiplier, timespan,
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	var raw aggsResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    "50000",
			"apiKey":   c.apiKey,
		}).
		SetResult(&raw).
		Get(path)
	if err != nil {
		return nil, market.ClassifyTransport(c.name, err)
	}
	if resp.IsError() {
		return nil, market.ClassifyHTTPStatus(c.name, resp.StatusCode(), resp.String())
	}
	if raw.Error != "" {
		return nil, market.UpstreamErr(c.name, raw.Error)
	}
	if len(raw.Results) == 0 {
		return nil, market.NoDataErr(symbol)
	}

	candles := make([]market.Candle, 0, len(raw.Results))
	for _, r := range raw.Results {
		candles = append(candles, market.Candle{
			Time:   time.UnixMilli(r.T).UTC(),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		})
	}
	return candles, nil
}
