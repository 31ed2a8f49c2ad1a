package coingecko

import "finsight-api/pkg/market"

func init() {
	market.RegisterProvider("coingecko", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []Option{
			WithBaseURL(cfg.BaseURL),
			WithTimeout(cfg.Timeout),
			WithAPIKey(cfg.APIKey),
		}
		c := NewClient(opts...)
		c.name = name
		return c, nil
	})
}
