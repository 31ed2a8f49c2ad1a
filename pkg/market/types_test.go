package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validCandle(ts time.Time) Candle {
	return Candle{Time: ts, Open: 100, High: 105, Low: 98, Close: 103, Volume: 1000}
}

func TestCandleValid(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.True(t, validCandle(ts).Valid())

	tests := []struct {
		name   string
		mutate func(*Candle)
	}{
		{"zero open", func(c *Candle) { c.Open = 0 }},
		{"negative close", func(c *Candle) { c.Close = -1 }},
		{"NaN high", func(c *Candle) { c.High = math.NaN() }},
		{"inf low", func(c *Candle) { c.Low = math.Inf(1) }},
		{"high below open", func(c *Candle) { c.High = 99 }},
		{"high below close", func(c *Candle) { c.High = 102 }},
		{"low above open", func(c *Candle) { c.Low = 101 }},
		{"negative volume", func(c *Candle) { c.Volume = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandle(ts)
			tt.mutate(&c)
			require.False(t, c.Valid())
		})
	}
}

func TestCandleGeometry(t *testing.T) {
	c := Candle{Open: 100, High: 110, Low: 95, Close: 104}
	require.InDelta(t, 4, c.Body(), 1e-9)
	require.InDelta(t, 15, c.Range(), 1e-9)
	require.InDelta(t, 6, c.UpperWick(), 1e-9)
	require.InDelta(t, 5, c.LowerWick(), 1e-9)
	require.True(t, c.Bullish())

	bear := Candle{Open: 104, High: 110, Low: 95, Close: 100}
	require.InDelta(t, 6, bear.UpperWick(), 1e-9)
	require.InDelta(t, 5, bear.LowerWick(), 1e-9)
	require.False(t, bear.Bullish())
}

func TestSanitizeCandles(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []Candle{
		validCandle(t0.Add(48 * time.Hour)),
		{Time: t0.Add(24 * time.Hour), Open: 0, High: 1, Low: 1, Close: 1}, // dropped, not repaired
		validCandle(t0),
		validCandle(t0), // duplicate timestamp
		validCandle(t0.Add(24 * time.Hour)),
	}

	out := SanitizeCandles(in)
	require.Len(t, out, 3)
	require.True(t, out[0].Time.Equal(t0))
	require.True(t, out[1].Time.Equal(t0.Add(24*time.Hour)))
	require.True(t, out[2].Time.Equal(t0.Add(48*time.Hour)))
	for i := 1; i < len(out); i++ {
		require.True(t, out[i-1].Time.Before(out[i].Time))
	}
}

func TestAssetSeriesBounds(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := &AssetSeries{Candles: []Candle{
		{Time: t0, Open: 10, High: 12, Low: 9, Close: 11},
		{Time: t0.Add(time.Hour), Open: 11, High: 15, Low: 10, Close: 14},
		{Time: t0.Add(2 * time.Hour), Open: 14, High: 14.5, Low: 8, Close: 9},
	}}
	require.InDelta(t, 15, s.PeriodHigh(), 1e-9)
	require.InDelta(t, 8, s.PeriodLow(), 1e-9)
	require.Equal(t, []float64{11, 14, 9}, s.Closes())

	empty := &AssetSeries{}
	require.Zero(t, empty.PeriodHigh())
	require.Zero(t, empty.PeriodLow())
}
