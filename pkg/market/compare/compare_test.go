package compare

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finsight-api/pkg/cache"
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/fetch"
)

func TestClassifyRequest(t *testing.T) {
	tests := []struct {
		text string
		want ComparisonType
	}{
		{"BTC market share vs ETH", TypeMarketShare},
		{"bitcoin dominance compared to altcoins", TypeMarketShare},
		{"did RELIANCE outperform TCS", TypeBenchmark},
		{"TCS relative to the sector", TypeBenchmark},
		{"BTC vs ETH trend over time", TypeTimeTrend},
		{"growth of SOL since january", TypeTimeTrend},
		{"rank the top NSE stocks", TypeEntityRanking},
		{"which is the strongest, BTC or ETH", TypeEntityRanking},
		{"compare BTC and ETH", TypeTimeTrend}, // default
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			require.Equal(t, tt.want, ClassifyRequest(tt.text))
		})
	}
}

func TestEvaluateSufficiency(t *testing.T) {
	// Below minimum refuses.
	v := EvaluateSufficiency(1, TypeTimeTrend)
	require.False(t, v.Proceed)
	require.NotEmpty(t, v.Reason)

	// Between minimum and ideal proceeds with a caveat.
	v = EvaluateSufficiency(2, TypeTimeTrend)
	require.True(t, v.Proceed)
	require.NotEmpty(t, v.Advisory)

	// Between ideal and strong still carries a softer caveat.
	v = EvaluateSufficiency(4, TypeTimeTrend)
	require.True(t, v.Proceed)
	require.NotEmpty(t, v.Advisory)

	// At or beyond strong is clean.
	v = EvaluateSufficiency(5, TypeTimeTrend)
	require.True(t, v.Proceed)
	require.Empty(t, v.Advisory)

	// Benchmark demands the largest sample.
	require.False(t, EvaluateSufficiency(3, TypeBenchmark).Proceed)
	require.True(t, EvaluateSufficiency(4, TypeBenchmark).Proceed)

	// Unknown types fall back to the time-trend thresholds.
	require.True(t, EvaluateSufficiency(2, ComparisonType("other")).Proceed)
}

func alignSeries(symbol string, closes map[int64]float64) *market.AssetSeries {
	s := &market.AssetSeries{Symbol: symbol}
	for ts, c := range closes {
		s.Candles = append(s.Candles, market.Candle{
			Time: time.Unix(ts, 0).UTC(), Open: c, High: c + 1, Low: c - 1, Close: c,
		})
	}
	return s
}

func TestAlign(t *testing.T) {
	a := alignSeries("AAA", map[int64]float64{100: 50, 200: 55, 300: 60, 400: 66})
	// BBB is missing ts=300, so that timestamp drops from the intersection.
	b := alignSeries("BBB", map[int64]float64{100: 200, 200: 190, 400: 220})

	chart := Align([]*market.AssetSeries{a, b})
	require.Len(t, chart.Timestamps, 3)
	require.Equal(t, int64(100), chart.Timestamps[0].Unix())
	require.Equal(t, int64(200), chart.Timestamps[1].Unix())
	require.Equal(t, int64(400), chart.Timestamps[2].Unix())

	// Every series starts at exactly 100 regardless of absolute price.
	require.InDelta(t, 100, chart.Indexed["AAA"][0], 1e-9)
	require.InDelta(t, 100, chart.Indexed["BBB"][0], 1e-9)
	require.InDelta(t, 110, chart.Indexed["AAA"][1], 1e-9)
	require.InDelta(t, 95, chart.Indexed["BBB"][1], 1e-9)
	require.InDelta(t, 132, chart.Indexed["AAA"][2], 1e-9)
	require.InDelta(t, 110, chart.Indexed["BBB"][2], 1e-9)
}

func TestAlignNoOverlap(t *testing.T) {
	a := alignSeries("AAA", map[int64]float64{100: 50})
	b := alignSeries("BBB", map[int64]float64{200: 60})
	chart := Align([]*market.AssetSeries{a, b})
	require.Empty(t, chart.Timestamps)
	require.Empty(t, chart.Indexed)

	empty := Align(nil)
	require.Empty(t, empty.Timestamps)
}

// fakeProvider serves both crypto and equity roles with deterministic data
// keyed by identifier so orchestration can be tested offline.
type fakeProvider struct {
	name      string
	bases     map[string]float64
	ohlcTimes []time.Time
}

func newFakeProvider(name string, bases map[string]float64) *fakeProvider {
	return &fakeProvider{name: name, bases: bases}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) series(id string, days int) ([]market.Candle, error) {
	base, ok := f.bases[id]
	if !ok {
		return nil, market.NotFoundErr(id)
	}
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	n := days
	if n > 25 {
		n = 25
	}
	out := make([]market.Candle, n)
	for i := range out {
		c := base + float64(i)
		out[i] = market.Candle{
			Time: t0.Add(time.Duration(i) * 24 * time.Hour),
			Open: c, High: c + 2, Low: c - 2, Close: c, Volume: 100,
		}
	}
	return out, nil
}

func (f *fakeProvider) OHLC(_ context.Context, id string, days int) ([]market.Candle, error) {
	f.ohlcTimes = append(f.ohlcTimes, time.Now())
	return f.series(id, days)
}

func (f *fakeProvider) Candles(_ context.Context, symbol string, days int) ([]market.Candle, error) {
	return f.series(symbol, days)
}

func (f *fakeProvider) Quote(_ context.Context, id string) (*market.Quote, error) {
	base, ok := f.bases[id]
	if !ok {
		return nil, market.NotFoundErr(id)
	}
	return &market.Quote{Price: base + 25, Change24h: 1.5}, nil
}

func (f *fakeProvider) Metadata(_ context.Context, id string) (*market.AssetMeta, error) {
	return &market.AssetMeta{Name: "Fake " + id}, nil
}

func (f *fakeProvider) Search(_ context.Context, _ string) ([]market.SearchHit, error) {
	return nil, nil
}

func newTestService(crypto, equity *fakeProvider) *Service {
	set := &market.ProviderSet{Crypto: crypto, Equity: equity}
	return NewService(fetch.NewService(cache.New(), set))
}

func defaultFakes() (*fakeProvider, *fakeProvider) {
	crypto := newFakeProvider("fakecrypto", map[string]float64{
		"bitcoin": 50000, "ethereum": 3000, "solana": 150,
	})
	equity := newFakeProvider("fakeequity", map[string]float64{
		"RELIANCE.NS": 2800, "TCS.NS": 4000,
	})
	return crypto, equity
}

func TestCompareEquities(t *testing.T) {
	svc := newTestService(defaultFakes())

	result, err := svc.Compare(context.Background(), Request{
		Tokens: []string{"reliance", "tcs"},
		Days:   30,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"RELIANCE.NS", "TCS.NS"}, result.Assets)
	require.Len(t, result.Table, 2)

	row := result.Table[0]
	require.Equal(t, "RELIANCE.NS", row.Symbol)
	require.InDelta(t, 2825, row.CurrentPrice, 1e-9)
	require.Equal(t, 25, row.Points)
	require.NotNil(t, row.RSI)
	require.Greater(t, row.Resistance, row.Support)

	require.Len(t, result.Chart.Timestamps, 25)
	require.InDelta(t, 100, result.Chart.Indexed["RELIANCE.NS"][0], 1e-9)
	require.InDelta(t, 100, result.Chart.Indexed["TCS.NS"][0], 1e-9)
}

func TestCompareRejectsMixedClasses(t *testing.T) {
	svc := newTestService(defaultFakes())
	_, err := svc.Compare(context.Background(), Request{
		Tokens: []string{"BTC", "RELIANCE"},
		Days:   30,
	})
	require.Error(t, err)
	require.Equal(t, market.KindGuidance, market.KindOf(err))
}

func TestCompareRejectsSingleAsset(t *testing.T) {
	svc := newTestService(defaultFakes())
	_, err := svc.Compare(context.Background(), Request{Tokens: []string{"BTC"}, Days: 30})
	require.Error(t, err)
	require.Equal(t, market.KindGuidance, market.KindOf(err))
}

func TestCompareCapsAtExplicitTickerCount(t *testing.T) {
	if testing.Short() {
		t.Skip("paced fetch test sleeps between crypto requests")
	}
	svc := newTestService(defaultFakes())

	result, err := svc.Compare(context.Background(), Request{
		Text: "compare BTC vs ETH vs SOL",
		Days: 30,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"BTC", "ETH", "SOL"}, result.Assets)
}

func TestCompareCryptoFetchesSequentially(t *testing.T) {
	if testing.Short() {
		t.Skip("paced fetch test sleeps for about a second")
	}
	crypto, equity := defaultFakes()
	svc := newTestService(crypto, equity)

	start := time.Now()
	result, err := svc.Compare(context.Background(), Request{
		Tokens: []string{"BTC", "ETH"},
		Days:   30,
	})
	require.NoError(t, err)
	require.Len(t, result.Table, 2)

	// The second crypto fetch waits behind the 1 req/s pacer.
	require.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
	require.Len(t, crypto.ohlcTimes, 2)
	require.GreaterOrEqual(t, crypto.ohlcTimes[1].Sub(crypto.ohlcTimes[0]), 900*time.Millisecond)
}

func TestCompareDeduplicatesTokens(t *testing.T) {
	svc := newTestService(defaultFakes())
	_, err := svc.Compare(context.Background(), Request{
		Tokens: []string{"BTC", "btc"},
		Days:   30,
	})
	// Both tokens resolve to the same asset; one asset is not comparable.
	require.Error(t, err)
	require.Equal(t, market.KindGuidance, market.KindOf(err))
}
