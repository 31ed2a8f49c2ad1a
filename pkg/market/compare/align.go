package compare

import (
	"sort"
	"time"

	"finsight-api/pkg/market"
)

// ChartData is the aligned, index-normalized comparison dataset. Timestamps
// are the ascending intersection of every series' timestamps; Indexed holds
// one value per timestamp per symbol, scaled so the first common observation
// equals 100 for every asset. That scaling is the defining invariant of
// comparable performance.
type ChartData struct {
	Timestamps []time.Time          `json:"timestamps"`
	Indexed    map[string][]float64 `json:"indexedSeries"`
}

// Align intersects the series' timestamps and rescales each close series to
// a 100 base at the first common timestamp. Series order is preserved in the
// Symbols result. Assets without data at a candidate timestamp exclude that
// timestamp from the intersection; nothing is interpolated.
func Align(seriesList []*market.AssetSeries) ChartData {
	chart := ChartData{Indexed: make(map[string][]float64, len(seriesList))}
	if len(seriesList) == 0 {
		return chart
	}

	// Count timestamp occurrences across series; keep those present in all.
	counts := make(map[int64]int)
	closes := make([]map[int64]float64, len(seriesList))
	for i, s := range seriesList {
		byTime := make(map[int64]float64, len(s.Candles))
		for _, c := range s.Candles {
			ts := c.Time.Unix()
			if _, dup := byTime[ts]; dup {
				continue
			}
			byTime[ts] = c.Close
			counts[ts]++
		}
		closes[i] = byTime
	}

	var common []int64
	for ts, n := range counts {
		if n == len(seriesList) {
			common = append(common, ts)
		}
	}
	if len(common) == 0 {
		return chart
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	chart.Timestamps = make([]time.Time, len(common))
	for i, ts := range common {
		chart.Timestamps[i] = time.Unix(ts, 0).UTC()
	}

	for i, s := range seriesList {
		base := closes[i][common[0]]
		if base <= 0 {
			continue
		}
		indexed := make([]float64, len(common))
		for j, ts := range common {
			indexed[j] = 100 * closes[i][ts] / base
		}
		chart.Indexed[s.Symbol] = indexed
	}
	return chart
}
