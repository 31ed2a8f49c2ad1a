package fetch

import (
	"context"
	"fmt"
	"strings"
)

// LogoResolver maps an equity ticker to a logo URL. Resolvers are tried in
// order until one returns a non-empty URL; none of them performs I/O.
type LogoResolver func(ctx context.Context, symbol string) string

// wellKnownLogos covers tickers whose CDN naming does not follow the generic
// pattern.
var wellKnownLogos = map[string]string{
	"AAPL":  "https://logo.clearbit.com/apple.com",
	"MSFT":  "https://logo.clearbit.com/microsoft.com",
	"GOOGL": "https://logo.clearbit.com/abc.xyz",
	"AMZN":  "https://logo.clearbit.com/amazon.com",
	"META":  "https://logo.clearbit.com/meta.com",
	"TSLA":  "https://logo.clearbit.com/tesla.com",
	"NVDA":  "https://logo.clearbit.com/nvidia.com",
}

func defaultLogoResolvers() []LogoResolver {
	return []LogoResolver{
		func(_ context.Context, symbol string) string {
			return wellKnownLogos[baseTicker(symbol)]
		},
		func(_ context.Context, symbol string) string {
			base := baseTicker(symbol)
			if base == "" {
				return ""
			}
			return fmt.Sprintf("https://financialmodelingprep.com/image-stock/%s.png", base)
		},
	}
}

func (s *Service) resolveLogo(ctx context.Context, symbol string) string {
	for _, resolve := range s.logos {
		if url := resolve(ctx, symbol); url != "" {
			return url
		}
	}
	return ""
}

// baseTicker strips any exchange suffix: RELIANCE.NS -> RELIANCE.
func baseTicker(symbol string) string {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.IndexByte(sym, '.'); i > 0 {
		sym = sym[:i]
	}
	return sym
}
