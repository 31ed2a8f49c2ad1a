package cache

import (
	"strconv"
	"strings"
	"time"
)

// Namespace is the cache key prefix for the finsight pipeline.
const Namespace = "finsight"

// Default freshness/staleness windows per data class. OHLC series move slowly
// and tolerate long stale fallback; quotes go stale fast; display metadata is
// nearly static.
var (
	PolicyOHLC     = Policy{Fresh: 60 * time.Second, Stale: 600 * time.Second}
	PolicyQuote    = Policy{Fresh: 15 * time.Second, Stale: 120 * time.Second}
	PolicyMetadata = Policy{Fresh: 300 * time.Second, Stale: 3600 * time.Second}
	PolicySearch   = Policy{Fresh: 300 * time.Second, Stale: 1800 * time.Second}
)

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(strings.ToLower(part))
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// OHLCKey identifies one provider's candle series for a symbol and window.
func OHLCKey(provider, symbol string, days int) string {
	return formatKey("ohlc", provider, symbol, strconv.Itoa(days))
}

// QuoteKey identifies the live quote for a symbol.
func QuoteKey(provider, symbol string) string {
	return formatKey("quote", provider, symbol)
}

// MetadataKey identifies display metadata for a symbol.
func MetadataKey(provider, symbol string) string {
	return formatKey("meta", provider, symbol)
}

// SearchKey identifies a symbol-search response.
func SearchKey(provider, query string) string {
	return formatKey("search", provider, query)
}

// FormatKey is exported for ad-hoc keys not covered by the helpers.
func FormatKey(parts ...string) string {
	return formatKey(parts...)
}
