package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finsight-api/pkg/cache"
	"finsight-api/pkg/market"
)

var testT0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func candleAt(i int, close float64) market.Candle {
	return market.Candle{
		Time: testT0.Add(time.Duration(i) * 24 * time.Hour),
		Open: close, High: close + 2, Low: close - 2, Close: close, Volume: 50,
	}
}

type cryptoStub struct {
	candles     []market.Candle
	gotID       string
	gotDays     int
	quote       *market.Quote
	quoteErr    error
	meta        *market.AssetMeta
	metaErr     error
	hits        []market.SearchHit
	searchCalls int
}

func (c *cryptoStub) Name() string { return "cryptostub" }

func (c *cryptoStub) OHLC(_ context.Context, assetID string, days int) ([]market.Candle, error) {
	c.gotID, c.gotDays = assetID, days
	return c.candles, nil
}

func (c *cryptoStub) Quote(_ context.Context, _ string) (*market.Quote, error) {
	return c.quote, c.quoteErr
}

func (c *cryptoStub) Metadata(_ context.Context, _ string) (*market.AssetMeta, error) {
	return c.meta, c.metaErr
}

func (c *cryptoStub) Search(_ context.Context, _ string) ([]market.SearchHit, error) {
	c.searchCalls++
	return c.hits, nil
}

type equityStub struct {
	candles     []market.Candle
	candleCalls int
	quote       *market.Quote
	meta        *market.AssetMeta
	hits        []market.SearchHit
	searchCalls int
}

func (e *equityStub) Name() string { return "equitystub" }

func (e *equityStub) Candles(_ context.Context, _ string, _ int) ([]market.Candle, error) {
	e.candleCalls++
	return e.candles, nil
}

func (e *equityStub) Quote(_ context.Context, _ string) (*market.Quote, error) {
	return e.quote, nil
}

func (e *equityStub) Metadata(_ context.Context, _ string) (*market.AssetMeta, error) {
	return e.meta, nil
}

func (e *equityStub) Search(_ context.Context, _ string) ([]market.SearchHit, error) {
	e.searchCalls++
	return e.hits, nil
}

type secondaryStub struct {
	candles []market.Candle
	err     error
	calls   int
	gotSym  string
}

func (s *secondaryStub) Name() string { return "secondarystub" }

func (s *secondaryStub) Aggregates(_ context.Context, symbol string, _ int) ([]market.Candle, error) {
	s.calls++
	s.gotSym = symbol
	return s.candles, s.err
}

func defaultCrypto() *cryptoStub {
	return &cryptoStub{
		candles: []market.Candle{candleAt(0, 100), candleAt(1, 104)},
		quote:   &market.Quote{Price: 105, Change24h: 2.5},
		meta:    &market.AssetMeta{Name: "Bitcoin", LogoURL: "https://img.test/btc.png"},
	}
}

func defaultEquity() *equityStub {
	return &equityStub{
		candles: []market.Candle{candleAt(0, 2800), candleAt(1, 2850)},
		quote:   &market.Quote{Price: 2860, Change24h: 0.8},
		meta:    &market.AssetMeta{Name: "Reliance Industries"},
	}
}

func newService(crypto *cryptoStub, equity *equityStub, secondary *secondaryStub) *Service {
	set := &market.ProviderSet{Crypto: crypto, Equity: equity}
	if secondary != nil {
		set.EquitySecondary = secondary
	}
	return NewService(cache.New(), set)
}

func TestCryptoSeriesAssembly(t *testing.T) {
	crypto := defaultCrypto()
	// Out-of-order input plus one unusable bar; sanitization sorts and drops.
	crypto.candles = []market.Candle{
		candleAt(2, 110),
		candleAt(0, 100),
		{Time: testT0.Add(24 * time.Hour), Open: 100, High: 90, Low: 95, Close: 0},
	}
	svc := newService(crypto, defaultEquity(), nil)

	series, err := svc.CryptoSeries(context.Background(), "BTC", 30)
	require.NoError(t, err)
	require.Equal(t, "bitcoin", crypto.gotID)
	require.Equal(t, "BTC", series.Symbol)
	require.Equal(t, market.ClassCrypto, series.Class)
	require.Len(t, series.Candles, 2)
	require.True(t, series.Candles[0].Time.Before(series.Candles[1].Time))
	require.InDelta(t, 105, series.CurrentPrice, 1e-9)
	require.InDelta(t, 2.5, series.Change24h, 1e-9)
	require.Equal(t, "Bitcoin", series.DisplayName)
	require.Equal(t, "https://img.test/btc.png", series.LogoURL)
}

func TestCryptoSeriesNoValidData(t *testing.T) {
	crypto := defaultCrypto()
	crypto.candles = []market.Candle{
		{Time: testT0, Open: 100, High: 90, Low: 95, Close: 0},
	}
	svc := newService(crypto, defaultEquity(), nil)

	_, err := svc.CryptoSeries(context.Background(), "BTC", 30)
	require.Error(t, err)
	require.Equal(t, market.KindNoData, market.KindOf(err))
}

func TestCryptoSeriesMetadataFailureIsNonFatal(t *testing.T) {
	crypto := defaultCrypto()
	crypto.meta, crypto.metaErr = nil, errors.New("metadata endpoint down")
	svc := newService(crypto, defaultEquity(), nil)

	series, err := svc.CryptoSeries(context.Background(), "BTC", 30)
	require.NoError(t, err)
	require.Empty(t, series.DisplayName)
	require.Empty(t, series.LogoURL)
}

func TestCryptoSeriesQuoteFailureIsFatal(t *testing.T) {
	crypto := defaultCrypto()
	crypto.quote, crypto.quoteErr = nil, market.RateLimitErr("cryptostub")
	svc := newService(crypto, defaultEquity(), nil)

	_, err := svc.CryptoSeries(context.Background(), "BTC", 30)
	require.Error(t, err)
	require.Equal(t, market.KindRateLimit, market.KindOf(err))
}

func TestCryptoSeriesUnknownToken(t *testing.T) {
	svc := newService(defaultCrypto(), defaultEquity(), nil)

	_, err := svc.CryptoSeries(context.Background(), "nosuchcoin", 30)
	require.Error(t, err)
	require.Equal(t, market.KindSymbolNotFound, market.KindOf(err))
}

func TestCryptoSeriesClampsDays(t *testing.T) {
	crypto := defaultCrypto()
	svc := newService(crypto, defaultEquity(), nil)

	_, err := svc.CryptoSeries(context.Background(), "BTC", 1000)
	require.NoError(t, err)
	require.Equal(t, 365, crypto.gotDays)

	_, err = svc.CryptoSeries(context.Background(), "BTC", 0)
	require.NoError(t, err)
	require.Equal(t, 1, crypto.gotDays)
}

func TestEquitySeriesPrimary(t *testing.T) {
	equity := defaultEquity()
	svc := newService(defaultCrypto(), equity, nil)

	series, err := svc.EquitySeries(context.Background(), "reliance", 30)
	require.NoError(t, err)
	require.Equal(t, "RELIANCE.NS", series.Symbol)
	require.Equal(t, market.ClassEquity, series.Class)
	require.Len(t, series.Candles, 2)
	require.InDelta(t, 2860, series.CurrentPrice, 1e-9)
	require.Equal(t, "Reliance Industries", series.DisplayName)
	// Metadata carried no logo; the ticker-based fallback fills it in.
	require.Equal(t, "https://financialmodelingprep.com/image-stock/RELIANCE.png", series.LogoURL)
}

func TestEquitySeriesWellKnownLogo(t *testing.T) {
	equity := defaultEquity()
	equity.meta = &market.AssetMeta{Name: "Apple Inc."}
	svc := newService(defaultCrypto(), equity, nil)

	series, err := svc.EquitySeries(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Equal(t, "https://logo.clearbit.com/apple.com", series.LogoURL)
}

func TestEquitySeriesSecondaryPreferredForForeign(t *testing.T) {
	equity := defaultEquity()
	secondary := &secondaryStub{candles: []market.Candle{candleAt(0, 190), candleAt(1, 195)}}
	svc := newService(defaultCrypto(), equity, secondary)

	series, err := svc.EquitySeries(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Equal(t, 1, secondary.calls)
	require.Equal(t, "AAPL", secondary.gotSym)
	require.Equal(t, 0, equity.candleCalls)
	require.InDelta(t, 195, series.Candles[1].Close, 1e-9)
	// Quote still comes from the primary provider.
	require.InDelta(t, 2860, series.CurrentPrice, 1e-9)
}

func TestEquitySeriesSecondaryFailureFallsThrough(t *testing.T) {
	equity := defaultEquity()
	secondary := &secondaryStub{err: errors.New("aggregates unavailable")}
	svc := newService(defaultCrypto(), equity, secondary)

	series, err := svc.EquitySeries(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Equal(t, 1, secondary.calls)
	require.Equal(t, 1, equity.candleCalls)
	require.Len(t, series.Candles, 2)
}

func TestEquitySeriesSkipsSecondaryForDomestic(t *testing.T) {
	equity := defaultEquity()
	secondary := &secondaryStub{candles: []market.Candle{candleAt(0, 1)}}
	svc := newService(defaultCrypto(), equity, secondary)

	_, err := svc.EquitySeries(context.Background(), "RELIANCE.NS", 30)
	require.NoError(t, err)
	require.Equal(t, 0, secondary.calls)
	require.Equal(t, 1, equity.candleCalls)
}

func TestEquitySeriesEmptySymbol(t *testing.T) {
	svc := newService(defaultCrypto(), defaultEquity(), nil)
	_, err := svc.EquitySeries(context.Background(), "   ", 30)
	require.Error(t, err)
	require.Equal(t, market.KindGuidance, market.KindOf(err))
}

func TestGetMarketSeriesUnknownClass(t *testing.T) {
	svc := newService(defaultCrypto(), defaultEquity(), nil)
	_, err := svc.GetMarketSeries(context.Background(), "BTC", market.AssetClass("bond"), 30)
	require.Error(t, err)
	require.Equal(t, market.KindGuidance, market.KindOf(err))
}

func TestGetMarketSeriesResolvedSkipsReResolution(t *testing.T) {
	crypto := defaultCrypto()
	crypto.hits = []market.SearchHit{{ID: "pepe", Symbol: "PEPE", Name: "Pepe"}}
	equity := defaultEquity()
	svc := newService(crypto, equity, nil)

	resolved := svc.Resolver().Resolve(context.Background(), "pepecoin")
	require.NotNil(t, resolved)
	require.Equal(t, "pepe", resolved.ProviderID)
	searchesAfterResolve := crypto.searchCalls

	series, err := svc.GetMarketSeriesResolved(context.Background(), resolved, 30)
	require.NoError(t, err)
	require.Equal(t, "PEPE", series.Symbol)
	// The fetch goes straight to the provider id; no further search happens,
	// so a token only resolvable via search cannot re-fail as not found.
	require.Equal(t, "pepe", crypto.gotID)
	require.Equal(t, searchesAfterResolve, crypto.searchCalls)
}

func TestGetMarketSeriesResolvedEquity(t *testing.T) {
	equity := defaultEquity()
	svc := newService(defaultCrypto(), equity, nil)

	resolved := svc.Resolver().Resolve(context.Background(), "tcs")
	require.NotNil(t, resolved)

	series, err := svc.GetMarketSeriesResolved(context.Background(), resolved, 30)
	require.NoError(t, err)
	require.Equal(t, "TCS.NS", series.Symbol)
	require.Equal(t, 1, equity.candleCalls)
	require.Zero(t, equity.searchCalls)
}

func TestResolverSearchIsCached(t *testing.T) {
	crypto := defaultCrypto()
	crypto.hits = []market.SearchHit{{ID: "pepe", Symbol: "PEPE", Name: "Pepe"}}
	equity := defaultEquity()
	svc := newService(crypto, equity, nil)

	resolver := svc.Resolver()
	first := resolver.Resolve(context.Background(), "pepecoin")
	second := resolver.Resolve(context.Background(), "pepecoin")
	require.NotNil(t, first)
	require.NotNil(t, second)
	require.Equal(t, first.Symbol, second.Symbol)

	// The second resolution is served from the cache for both class searches.
	require.Equal(t, 1, crypto.searchCalls)
	require.Equal(t, 1, equity.searchCalls)
}
