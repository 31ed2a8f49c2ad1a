package market

import (
	"math"
	"sort"
	"time"
)

// AssetClass distinguishes the two upstream universes the pipeline serves.
type AssetClass string

const (
	ClassCrypto AssetClass = "crypto"
	ClassEquity AssetClass = "equity"
)

// Candle is a single OHLC record for one time bucket.
//
// A candle is only considered usable when every price field is finite and
// positive, high is at least max(open, close) and low is at most
// min(open, close). Records that fail these checks are dropped, never repaired.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume,omitempty"`
}

// Valid reports whether the candle satisfies the OHLC shape invariant.
func (c Candle) Valid() bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	if c.High < c.Open || c.High < c.Close {
		return false
	}
	if c.Low > c.Open || c.Low > c.Close {
		return false
	}
	if c.High < c.Low {
		return false
	}
	return c.Volume >= 0
}

// Body returns the absolute open/close distance.
func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// Range returns the high/low distance.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// UpperWick returns the distance from the body top to the high.
func (c Candle) UpperWick() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerWick returns the distance from the body bottom to the low.
func (c Candle) LowerWick() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// SanitizeCandles drops invalid records, sorts the remainder ascending by time
// and removes duplicate timestamps (first occurrence wins). The input slice is
// not modified.
func SanitizeCandles(in []Candle) []Candle {
	out := make([]Candle, 0, len(in))
	for _, c := range in {
		if c.Valid() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	dedup := out[:0]
	var last time.Time
	for i, c := range out {
		if i > 0 && c.Time.Equal(last) {
			continue
		}
		dedup = append(dedup, c)
		last = c.Time
	}
	return dedup
}

// Quote is the latest traded price plus the 24h percentage change.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// AssetMeta carries display metadata for an asset.
type AssetMeta struct {
	Name    string `json:"name,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// SearchHit is one entry from a provider symbol-search endpoint.
type SearchHit struct {
	ID     string // provider-canonical identifier (crypto asset id, equity ticker)
	Symbol string
	Name   string
}

// AssetSeries is the normalized fetch result for one asset: a validated,
// ascending OHLC sequence plus the live quote and optional display metadata.
// Immutable once returned.
type AssetSeries struct {
	Symbol       string     `json:"symbol"` // canonical provider symbol
	Class        AssetClass `json:"assetClass"`
	Candles      []Candle   `json:"candles"`
	CurrentPrice float64    `json:"currentPrice"`
	Change24h    float64    `json:"change24h"`
	DisplayName  string     `json:"displayName,omitempty"`
	LogoURL      string     `json:"logoUrl,omitempty"`
}

// Closes returns the close column of the series.
func (s *AssetSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// PeriodLow returns the lowest low across the series, or 0 when empty.
func (s *AssetSeries) PeriodLow() float64 {
	low := math.Inf(1)
	for _, c := range s.Candles {
		low = math.Min(low, c.Low)
	}
	if math.IsInf(low, 1) {
		return 0
	}
	return low
}

// PeriodHigh returns the highest high across the series, or 0 when empty.
func (s *AssetSeries) PeriodHigh() float64 {
	high := math.Inf(-1)
	for _, c := range s.Candles {
		high = math.Max(high, c.High)
	}
	if math.IsInf(high, -1) {
		return 0
	}
	return high
}
