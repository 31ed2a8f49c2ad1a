package coingecko

// ohlcResponse is the /coins/{id}/ohlc payload: rows of
// [timestamp_ms, open, high, low, close].
type ohlcResponse [][5]float64

// simplePriceResponse maps asset id -> {"usd": price, "usd_24h_change": pct}.
type simplePriceResponse map[string]map[string]float64

// coinResponse carries the subset of /coins/{id} used for display metadata.
type coinResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`
}

// searchResponse is the /search payload.
type searchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"coins"`
}
