package config

import (
	"finsight-api/pkg/market"
)

// MustLoadMarket loads etc/market.yaml from the project root and panics on error.
// It isolates provider config so tests that only need providers do not have to
// load the full app config.
func MustLoadMarket() *market.Config {
	return market.MustLoad()
}
