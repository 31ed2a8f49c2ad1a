// Package indicators computes the technical indicator set used by the
// analysis and comparison layers.
package indicators

import (
	"finsight-api/pkg/market"
)

const (
	// MAPeriod is the moving average window.
	MAPeriod = 20
	// RSIPeriod is the momentum averaging window.
	RSIPeriod = 14
)

// Trend is the three-state classification derived from MA and RSI together.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Set carries the computed indicators. MA20 and RSI are nil when the series
// has fewer than MAPeriod records: that is deliberate degraded output, not
// an error, and the trend defaults to neutral.
type Set struct {
	MA20  *float64 `json:"ma20"`
	RSI   *float64 `json:"rsi"`
	Trend Trend    `json:"trend"`
}

// Compute derives the indicator set from a validated ascending OHLC series.
func Compute(candles []market.Candle) Set {
	if len(candles) < MAPeriod {
		return Set{Trend: TrendNeutral}
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	ma := mean(closes[len(closes)-MAPeriod:])
	rsi := computeRSI(closes)

	current := closes[len(closes)-1]
	trend := TrendNeutral
	switch {
	case current > ma && rsi > 50:
		trend = TrendBullish
	case current < ma && rsi < 50:
		trend = TrendBearish
	}

	return Set{MA20: &ma, RSI: &rsi, Trend: trend}
}

// computeRSI averages the last RSIPeriod per-step gains and losses with a
// plain mean rather than Wilder's smoothing. When there are no losses the
// denominator is 1, not 0: that avoids division by zero and yields a high
// but finite RSI instead of a hard 100.
func computeRSI(closes []float64) float64 {
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := meanTail(gains, RSIPeriod)
	avgLoss := meanTail(losses, RSIPeriod)
	denom := avgLoss
	if denom == 0 {
		denom = 1
	}
	rs := avgGain / denom
	return 100 - 100/(1+rs)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func meanTail(vals []float64, n int) float64 {
	if len(vals) > n {
		vals = vals[len(vals)-n:]
	}
	return mean(vals)
}
