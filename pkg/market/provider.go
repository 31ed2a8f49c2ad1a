package market

import "context"

// Provider is the marker implemented by every upstream market data source.
type Provider interface {
	Name() string
}

// CryptoProvider exposes crypto OHLC, quote, metadata and symbol search.
// Identifiers are provider-canonical asset ids (e.g. "bitcoin"), not tickers.
type CryptoProvider interface {
	Provider
	// OHLC returns candles covering the requested number of days. Providers
	// clamp days to their own maximum rather than failing.
	OHLC(ctx context.Context, assetID string, days int) ([]Candle, error)
	Quote(ctx context.Context, assetID string) (*Quote, error)
	Metadata(ctx context.Context, assetID string) (*AssetMeta, error)
	Search(ctx context.Context, query string) ([]SearchHit, error)
}

// EquityProvider exposes equity chart data keyed by exchange ticker. The
// provider chooses bar granularity from the requested window: sub-daily
// intervals for short windows to maximise point density.
type EquityProvider interface {
	Provider
	Candles(ctx context.Context, symbol string, days int) ([]Candle, error)
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Metadata(ctx context.Context, symbol string) (*AssetMeta, error)
	Search(ctx context.Context, query string) ([]SearchHit, error)
}

// EquityAggregatesProvider is the narrower surface of the optional secondary
// equities source. It serves candles only; callers fall through to the
// primary provider on any failure.
type EquityAggregatesProvider interface {
	Provider
	Aggregates(ctx context.Context, symbol string, days int) ([]Candle, error)
}
