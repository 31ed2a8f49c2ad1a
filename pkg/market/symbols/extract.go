package symbols

import (
	"regexp"
	"strings"
)

// Stop-words stripped from comparison requests before token splitting.
var stopWords = map[string]struct{}{
	"compare": {}, "comparison": {}, "versus": {}, "vs": {}, "with": {},
	"against": {}, "between": {}, "stock": {}, "stocks": {}, "share": {},
	"shares": {}, "price": {}, "prices": {}, "chart": {}, "charts": {},
	"performance": {}, "market": {}, "crypto": {}, "cryptocurrency": {},
	"coin": {}, "coins": {}, "token": {}, "tokens": {}, "the": {}, "a": {},
	"an": {}, "of": {}, "for": {}, "to": {}, "in": {}, "over": {}, "last": {},
	"days": {}, "show": {}, "me": {}, "and": {}, "or": {}, "please": {},
	"how": {}, "did": {}, "do": {}, "does": {},
}

var (
	separatorRe = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b|\bvs\.?\b|\bversus\b)\s*`)
	// Upper-case ticker-like tokens with an optional exchange suffix,
	// e.g. AAPL, BTC, RELIANCE.NS. Long enough for NSE tickers (HINDUNILVR).
	tickerRe = regexp.MustCompile(`\b[A-Z]{1,10}(?:\.[A-Z]{1,3})?\b`)
	wordRe   = regexp.MustCompile(`[A-Za-z][A-Za-z0-9.\-]*`)
)

// ExtractCandidates pulls plausible symbol tokens out of free text. It splits
// on comparison separators, drops market stop-words, and separately captures
// upper-case ticker-like tokens. The result is an order-preserving union
// without duplicates.
func ExtractCandidates(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(token string) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		if _, stop := stopWords[strings.ToLower(token)]; stop {
			return
		}
		key := strings.ToUpper(token)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, token)
	}

	for _, segment := range separatorRe.Split(text, -1) {
		for _, word := range wordRe.FindAllString(segment, -1) {
			add(word)
		}
	}
	for _, ticker := range tickerRe.FindAllString(text, -1) {
		add(ticker)
	}
	return out
}

// CountExplicitTickers returns how many distinct ticker-like tokens appear
// verbatim in the text. The comparison orchestrator uses this to cap the
// number of assets so stray extraction never inflates a comparison.
func CountExplicitTickers(text string) int {
	seen := make(map[string]struct{})
	for _, ticker := range tickerRe.FindAllString(text, -1) {
		if _, stop := stopWords[strings.ToLower(ticker)]; stop {
			continue
		}
		seen[strings.ToUpper(ticker)] = struct{}{}
	}
	return len(seen)
}
