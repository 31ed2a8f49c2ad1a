package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finsight-api/pkg/market"
)

func candlesFromCloses(closes []float64) []market.Candle {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			Time:  t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return out
}

func TestComputeShortSeriesDegrades(t *testing.T) {
	set := Compute(candlesFromCloses([]float64{100, 101, 102}))
	require.Nil(t, set.MA20)
	require.Nil(t, set.RSI)
	require.Equal(t, TrendNeutral, set.Trend)

	// 19 records is still below the window.
	closes := make([]float64, MAPeriod-1)
	for i := range closes {
		closes[i] = 100
	}
	set = Compute(candlesFromCloses(closes))
	require.Nil(t, set.MA20)
	require.Equal(t, TrendNeutral, set.Trend)
}

func TestComputeBullish(t *testing.T) {
	// Strictly rising closes 100..119: every step is a gain, so RSI uses the
	// denominator fallback and lands near 50; the close sits above the mean.
	closes := make([]float64, MAPeriod)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	set := Compute(candlesFromCloses(closes))

	require.NotNil(t, set.MA20)
	require.InDelta(t, 109.5, *set.MA20, 1e-9)

	// avgGain=1, avgLoss=0 -> denom 1 -> rs=1 -> RSI=50, deliberately not 100.
	require.NotNil(t, set.RSI)
	require.InDelta(t, 50.0, *set.RSI, 1e-9)

	// RSI=50 is not >50, so the combined trend stays neutral here.
	require.Equal(t, TrendNeutral, set.Trend)
}

func TestComputeTrendStates(t *testing.T) {
	// Mostly rising with one dip: avgLoss > 0, RSI well above 50, close above
	// the 20-bar mean.
	up := []float64{
		100, 102, 104, 103, 106, 108, 110, 112, 114, 113,
		116, 118, 120, 122, 124, 126, 128, 130, 132, 134,
	}
	set := Compute(candlesFromCloses(up))
	require.Equal(t, TrendBullish, set.Trend)
	require.Greater(t, *set.RSI, 50.0)
	require.Greater(t, up[len(up)-1], *set.MA20)

	// Mirror image: falling with one bounce.
	down := []float64{
		134, 132, 130, 131, 128, 126, 124, 122, 120, 121,
		118, 116, 114, 112, 110, 108, 106, 104, 102, 100,
	}
	set = Compute(candlesFromCloses(down))
	require.Equal(t, TrendBearish, set.Trend)
	require.Less(t, *set.RSI, 50.0)

	// Flat series: no gains, no losses, RSI 0 via the fallback denominator,
	// close equal to the mean.
	flat := make([]float64, MAPeriod)
	for i := range flat {
		flat[i] = 100
	}
	set = Compute(candlesFromCloses(flat))
	require.Equal(t, TrendNeutral, set.Trend)
	require.InDelta(t, 0.0, *set.RSI, 1e-9)
}

func TestComputeRSIWindow(t *testing.T) {
	// Only the last RSIPeriod steps participate: early noise is ignored.
	closes := []float64{
		100, 50, 200, 75, 150, 100,
		101, 102, 103, 104, 105, 106, 107, 108,
		109, 110, 111, 112, 113, 114,
	}
	rsi := computeRSI(closes)
	// All 14 tail steps are +1 gains: avgGain=1, avgLoss=0 -> RSI=50.
	require.InDelta(t, 50.0, rsi, 1e-9)
}
