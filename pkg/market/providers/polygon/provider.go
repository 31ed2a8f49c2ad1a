package polygon

import "finsight-api/pkg/market"

func init() {
	market.RegisterProvider("polygon", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		c, err := NewClient(cfg.APIKey,
			WithBaseURL(cfg.BaseURL),
			WithTimeout(cfg.Timeout),
		)
		if err != nil {
			return nil, err
		}
		c.name = name
		return c, nil
	})
}
