package candles

import (
	"fmt"
	"strings"

	"finsight-api/pkg/market"
)

const digestTimeLayout = "2006-01-02 15:04"

// renderDigest produces the fixed-layout plain-text summary handed to the
// downstream text generation step. The line and field order is a contract:
// consumers rely on it positionally, so it must not be reordered.
func renderDigest(series *market.AssetSeries, r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Market Data: %s (%s) ===\n", series.Symbol, series.Class)
	if n := len(series.Candles); n > 0 {
		first := series.Candles[0]
		last := series.Candles[n-1]
		fmt.Fprintf(&b, "Period: %s -> %s (%d candles)\n",
			first.Time.UTC().Format(digestTimeLayout),
			last.Time.UTC().Format(digestTimeLayout), n)
		fmt.Fprintf(&b, "Price: first %.4f, last %.4f, change %+.2f%%\n",
			first.Close, last.Close, r.Statistics.PriceChangePct)
	} else {
		b.WriteString("Period: no data\n")
		b.WriteString("Price: no data\n")
	}
	fmt.Fprintf(&b, "Range: high %.4f, low %.4f, volatility %.2f%%\n",
		r.Statistics.PeriodHigh, r.Statistics.PeriodLow, r.Statistics.Volatility*100)
	fmt.Fprintf(&b, "Current: %.4f (%+.2f%% 24h)\n", series.CurrentPrice, series.Change24h)
	fmt.Fprintf(&b, "Trend: %s (price) | %s (indicators)\n", r.Summary.Trend, r.Indicators.Trend)
	fmt.Fprintf(&b, "Indicators: MA20 %s, RSI %s\n",
		formatOptional(r.Indicators.MA20, "%.4f"),
		formatOptional(r.Indicators.RSI, "%.1f"))
	fmt.Fprintf(&b, "Patterns: doji %d, hammer %d, engulfing %d, spinning_top %d\n",
		r.Patterns.Doji, r.Patterns.Hammer, r.Patterns.Engulfing, r.Patterns.SpinningTop)

	b.WriteString("Recent candles:\n")
	for _, tc := range r.RecentCandles {
		fmt.Fprintf(&b, "  %s O:%.4f H:%.4f L:%.4f C:%.4f%s\n",
			tc.Time.UTC().Format(digestTimeLayout),
			tc.Open, tc.High, tc.Low, tc.Close, formatTags(tc.Patterns))
	}
	return b.String()
}

func formatOptional(v *float64, layout string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(layout, *v)
}

func formatTags(patterns []Pattern) string {
	if len(patterns) == 0 {
		return ""
	}
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = string(p)
	}
	return " [" + strings.Join(names, ", ") + "]"
}
