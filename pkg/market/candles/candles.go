// Package candles derives summary statistics and candlestick patterns from a
// validated OHLC series and renders the compact digest consumed by the text
// generation layer.
package candles

import (
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/indicators"
)

// Pattern identifies a candlestick shape classification.
type Pattern string

const (
	PatternDoji             Pattern = "doji"
	PatternHammer           Pattern = "hammer"
	PatternBullishEngulfing Pattern = "bullish_engulfing"
	PatternBearishEngulfing Pattern = "bearish_engulfing"
	PatternSpinningTop      Pattern = "spinning_top"
)

// Body/range thresholds for the shape classifications.
const (
	dojiBodyRatio     = 0.10
	smallBodyRatio    = 0.30
	engulfBodyFactor  = 1.5
	hammerWickFactor  = 2.0
	recentCandleCount = 5
	trendChangePct    = 2.0
)

// Statistics summarises the whole series.
type Statistics struct {
	PeriodHigh float64 `json:"periodHigh"`
	PeriodLow  float64 `json:"periodLow"`
	MeanClose  float64 `json:"meanClose"`
	// Volatility is (max high - min low) / mean close.
	Volatility float64 `json:"volatility"`
	// PriceChangePct is first close to last close, in percent.
	PriceChangePct float64 `json:"priceChangePct"`
	CandleCount    int     `json:"candleCount"`
}

// PatternCounts tallies detections across the series. Engulfing counts both
// directions together; the per-candle tags keep the distinction.
type PatternCounts struct {
	Doji        int `json:"doji"`
	Hammer      int `json:"hammer"`
	Engulfing   int `json:"engulfing"`
	SpinningTop int `json:"spinningTop"`
}

// TaggedCandle is a candle plus the patterns detected at its position.
type TaggedCandle struct {
	market.Candle
	Patterns []Pattern `json:"patterns,omitempty"`
}

// Summary is the headline view of the series.
type Summary struct {
	Symbol string           `json:"symbol"`
	Class  market.AssetClass `json:"assetClass"`
	// Trend here derives purely from the period price change (±2%). It is
	// deliberately distinct from the indicator trend, which also weighs RSI;
	// the two can disagree and consumers must not conflate them.
	Trend indicators.Trend `json:"trend"`
}

// Result is the full preprocessing output.
type Result struct {
	Summary       Summary          `json:"summary"`
	Statistics    Statistics       `json:"statistics"`
	Patterns      PatternCounts    `json:"patterns"`
	RecentCandles []TaggedCandle   `json:"recentCandles"`
	Indicators    indicators.Set   `json:"indicators"`
	Digest        string           `json:"digest"`
}

// Preprocess computes statistics, detects patterns and renders the digest.
func Preprocess(series *market.AssetSeries, ind indicators.Set) Result {
	stats := computeStatistics(series.Candles)
	tagged := tagCandles(series.Candles)
	counts := countPatterns(tagged)

	trend := indicators.TrendNeutral
	switch {
	case stats.PriceChangePct > trendChangePct:
		trend = indicators.TrendBullish
	case stats.PriceChangePct < -trendChangePct:
		trend = indicators.TrendBearish
	}

	recent := tagged
	if len(recent) > recentCandleCount {
		recent = recent[len(recent)-recentCandleCount:]
	}

	result := Result{
		Summary: Summary{
			Symbol: series.Symbol,
			Class:  series.Class,
			Trend:  trend,
		},
		Statistics:    stats,
		Patterns:      counts,
		RecentCandles: recent,
		Indicators:    ind,
	}
	result.Digest = renderDigest(series, &result)
	return result
}

func computeStatistics(cs []market.Candle) Statistics {
	stats := Statistics{CandleCount: len(cs)}
	if len(cs) == 0 {
		return stats
	}
	high := cs[0].High
	low := cs[0].Low
	var closeSum float64
	for _, c := range cs {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
		closeSum += c.Close
	}
	stats.PeriodHigh = high
	stats.PeriodLow = low
	stats.MeanClose = closeSum / float64(len(cs))
	if stats.MeanClose > 0 {
		stats.Volatility = (high - low) / stats.MeanClose
	}
	if first := cs[0].Close; first > 0 {
		stats.PriceChangePct = (cs[len(cs)-1].Close - first) / first * 100
	}
	return stats
}

// tagCandles runs the shape detectors over the series. Single-candle shapes
// look at each candle alone; engulfing compares each candle with its
// predecessor.
func tagCandles(cs []market.Candle) []TaggedCandle {
	tagged := make([]TaggedCandle, len(cs))
	for i, c := range cs {
		tagged[i] = TaggedCandle{Candle: c}

		body := c.Body()
		rng := c.Range()
		if rng > 0 {
			ratio := body / rng
			switch {
			case ratio < dojiBodyRatio:
				tagged[i].Patterns = append(tagged[i].Patterns, PatternDoji)
			case ratio < smallBodyRatio && c.LowerWick() > hammerWickFactor*body && c.UpperWick() < body:
				tagged[i].Patterns = append(tagged[i].Patterns, PatternHammer)
			case ratio < smallBodyRatio && c.LowerWick() > body && c.UpperWick() > body:
				tagged[i].Patterns = append(tagged[i].Patterns, PatternSpinningTop)
			}
		}

		if i > 0 && engulfs(c, cs[i-1]) {
			if c.Bullish() {
				tagged[i].Patterns = append(tagged[i].Patterns, PatternBullishEngulfing)
			} else {
				tagged[i].Patterns = append(tagged[i].Patterns, PatternBearishEngulfing)
			}
		}
	}
	return tagged
}

// engulfs reports whether the candle's open/close range fully contains the
// previous candle's, with a body at least 1.5x larger. Direction-agnostic.
func engulfs(c, prev market.Candle) bool {
	if c.Body() <= engulfBodyFactor*prev.Body() {
		return false
	}
	top, bottom := c.Open, c.Close
	if bottom > top {
		top, bottom = bottom, top
	}
	prevTop, prevBottom := prev.Open, prev.Close
	if prevBottom > prevTop {
		prevTop, prevBottom = prevBottom, prevTop
	}
	return top >= prevTop && bottom <= prevBottom
}

func countPatterns(tagged []TaggedCandle) PatternCounts {
	var counts PatternCounts
	for _, t := range tagged {
		for _, p := range t.Patterns {
			switch p {
			case PatternDoji:
				counts.Doji++
			case PatternHammer:
				counts.Hammer++
			case PatternBullishEngulfing, PatternBearishEngulfing:
				counts.Engulfing++
			case PatternSpinningTop:
				counts.SpinningTop++
			}
		}
	}
	return counts
}
