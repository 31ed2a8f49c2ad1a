package yahoo

import "finsight-api/pkg/market"

func init() {
	market.RegisterProvider("yahoo", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		c := NewClient(
			WithBaseURL(cfg.BaseURL),
			WithTimeout(cfg.Timeout),
		)
		c.name = name
		return c, nil
	})
}
