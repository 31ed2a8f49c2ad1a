// Package fetch orchestrates series acquisition: symbol resolution, cache
// wrapped provider calls, record validation and metadata enrichment.
package fetch

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/pkg/cache"
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/symbols"
)

// maxCryptoDays is the crypto provider's history ceiling. Callers requesting
// longer windows silently receive this many days, not an error.
const maxCryptoDays = 365

// Service fetches normalized asset series through the coalescing cache.
type Service struct {
	cache     *cache.Cache
	providers *market.ProviderSet
	resolver  *symbols.Resolver
	logos     []LogoResolver
}

// NewService wires the fetch pipeline. Search calls issued during symbol
// resolution go through the cache as well, so repeated resolution of the
// same token costs one upstream call per freshness window.
func NewService(c *cache.Cache, providers *market.ProviderSet) *Service {
	s := &Service{
		cache:     c,
		providers: providers,
		logos:     defaultLogoResolvers(),
	}
	s.resolver = symbols.NewResolver(
		s.cachedSearcher(providers.Crypto.Name(), providers.Crypto.Search),
		s.cachedSearcher(providers.Equity.Name(), providers.Equity.Search),
	)
	return s
}

// Resolver exposes the symbol resolver backed by this service's cache.
func (s *Service) Resolver() *symbols.Resolver {
	return s.resolver
}

// GetMarketSeries fetches one asset's series by class.
func (s *Service) GetMarketSeries(ctx context.Context, token string, class market.AssetClass, days int) (*market.AssetSeries, error) {
	switch class {
	case market.ClassCrypto:
		return s.CryptoSeries(ctx, token, days)
	case market.ClassEquity:
		return s.EquitySeries(ctx, token, days)
	default:
		return nil, market.GuidanceErr("unknown asset class; expected crypto or equity")
	}
}

// GetMarketSeriesResolved fetches a series for an already-resolved asset.
// Callers that went through the resolver use this to avoid a second
// resolution round trip (the search fallback is an upstream call).
func (s *Service) GetMarketSeriesResolved(ctx context.Context, resolved *symbols.ResolvedAsset, days int) (*market.AssetSeries, error) {
	switch resolved.Class {
	case market.ClassCrypto:
		return s.CryptoSeriesResolved(ctx, resolved, days)
	case market.ClassEquity:
		return s.EquitySeries(ctx, resolved.Symbol, days)
	default:
		return nil, market.GuidanceErr("unknown asset class; expected crypto or equity")
	}
}

// CryptoSeries resolves the token and assembles the crypto series: OHLC,
// quote and display metadata through three independent cache policies.
func (s *Service) CryptoSeries(ctx context.Context, token string, days int) (*market.AssetSeries, error) {
	resolved := s.resolver.ResolveCrypto(ctx, token)
	if resolved == nil {
		return nil, market.NotFoundErr(token)
	}
	return s.CryptoSeriesResolved(ctx, resolved, days)
}

// CryptoSeriesResolved fetches a series for an already-resolved crypto asset.
func (s *Service) CryptoSeriesResolved(ctx context.Context, resolved *symbols.ResolvedAsset, days int) (*market.AssetSeries, error) {
	provider := s.providers.Crypto
	if days > maxCryptoDays {
		days = maxCryptoDays
	}
	if days <= 0 {
		days = 1
	}

	raw, _, err := s.cache.Fetch(ctx,
		cache.OHLCKey(provider.Name(), resolved.ProviderID, days),
		cache.PolicyOHLC.WithRateLimitSignal(market.IsRateLimit),
		func(ctx context.Context) (any, error) {
			return provider.OHLC(ctx, resolved.ProviderID, days)
		})
	if err != nil {
		return nil, err
	}
	candles := market.SanitizeCandles(raw.([]market.Candle))
	if len(candles) == 0 {
		return nil, market.NoDataErr(resolved.Symbol)
	}

	quote, err := s.fetchQuote(ctx, provider.Name(), resolved.ProviderID, func(ctx context.Context) (any, error) {
		return provider.Quote(ctx, resolved.ProviderID)
	})
	if err != nil {
		return nil, err
	}

	series := &market.AssetSeries{
		Symbol:       resolved.Symbol,
		Class:        market.ClassCrypto,
		Candles:      candles,
		CurrentPrice: quote.Price,
		Change24h:    quote.Change24h,
	}

	// Metadata is display-only enrichment; failure never fails the fetch.
	if meta := s.fetchMetadata(ctx, provider.Name(), resolved.ProviderID, func(ctx context.Context) (any, error) {
		return provider.Metadata(ctx, resolved.ProviderID)
	}); meta != nil {
		series.DisplayName = meta.Name
		series.LogoURL = meta.LogoURL
	}
	return series, nil
}

// EquitySeries normalizes the symbol and assembles the equity series. When a
// secondary aggregates provider is configured and the symbol is not
// domestic-exchange-qualified, it is attempted first; any failure there falls
// through to the primary provider rather than failing the call.
func (s *Service) EquitySeries(ctx context.Context, symbol string, days int) (*market.AssetSeries, error) {
	sym := symbols.NormalizeEquity(symbol)
	if sym == "" {
		return nil, market.GuidanceErr("empty equity symbol")
	}
	if days <= 0 {
		days = 1
	}

	var candles []market.Candle
	if secondary := s.providers.EquitySecondary; secondary != nil && !symbols.IsDomestic(sym) {
		raw, _, err := s.cache.Fetch(ctx,
			cache.OHLCKey(secondary.Name(), sym, days),
			cache.PolicyOHLC.WithRateLimitSignal(market.IsRateLimit),
			func(ctx context.Context) (any, error) {
				return secondary.Aggregates(ctx, sym, days)
			})
		if err != nil {
			logx.WithContext(ctx).Infof("fetch: secondary equity provider failed for %s, falling back: %v", sym, err)
		} else {
			candles = market.SanitizeCandles(raw.([]market.Candle))
		}
	}

	primary := s.providers.Equity
	if len(candles) == 0 {
		raw, _, err := s.cache.Fetch(ctx,
			cache.OHLCKey(primary.Name(), sym, days),
			cache.PolicyOHLC.WithRateLimitSignal(market.IsRateLimit),
			func(ctx context.Context) (any, error) {
				return primary.Candles(ctx, sym, days)
			})
		if err != nil {
			return nil, err
		}
		candles = market.SanitizeCandles(raw.([]market.Candle))
	}
	if len(candles) == 0 {
		return nil, market.NoDataErr(sym)
	}

	quote, err := s.fetchQuote(ctx, primary.Name(), sym, func(ctx context.Context) (any, error) {
		return primary.Quote(ctx, sym)
	})
	if err != nil {
		return nil, err
	}

	series := &market.AssetSeries{
		Symbol:       sym,
		Class:        market.ClassEquity,
		Candles:      candles,
		CurrentPrice: quote.Price,
		Change24h:    quote.Change24h,
	}

	meta := s.fetchMetadata(ctx, primary.Name(), sym, func(ctx context.Context) (any, error) {
		return primary.Metadata(ctx, sym)
	})
	if meta != nil {
		series.DisplayName = meta.Name
		series.LogoURL = meta.LogoURL
	}
	if series.LogoURL == "" {
		series.LogoURL = s.resolveLogo(ctx, sym)
	}
	return series, nil
}

func (s *Service) fetchQuote(ctx context.Context, provider, id string, producer func(context.Context) (any, error)) (*market.Quote, error) {
	raw, _, err := s.cache.Fetch(ctx,
		cache.QuoteKey(provider, id),
		cache.PolicyQuote.WithRateLimitSignal(market.IsRateLimit),
		producer)
	if err != nil {
		return nil, err
	}
	return raw.(*market.Quote), nil
}

func (s *Service) fetchMetadata(ctx context.Context, provider, id string, producer func(context.Context) (any, error)) *market.AssetMeta {
	raw, _, err := s.cache.Fetch(ctx,
		cache.MetadataKey(provider, id),
		cache.PolicyMetadata.WithRateLimitSignal(market.IsRateLimit),
		producer)
	if err != nil {
		logx.WithContext(ctx).Infof("fetch: metadata unavailable for %s/%s: %v", provider, id, err)
		return nil
	}
	return raw.(*market.AssetMeta)
}

// cachedSearcher wraps a provider search call with the cache so resolution
// does not hammer the search endpoints.
func (s *Service) cachedSearcher(provider string, search func(context.Context, string) ([]market.SearchHit, error)) symbols.Searcher {
	return searcherFunc(func(ctx context.Context, query string) ([]market.SearchHit, error) {
		raw, _, err := s.cache.Fetch(ctx,
			cache.SearchKey(provider, query),
			cache.PolicySearch.WithRateLimitSignal(market.IsRateLimit),
			func(ctx context.Context) (any, error) {
				return search(ctx, query)
			})
		if err != nil {
			return nil, err
		}
		return raw.([]market.SearchHit), nil
	})
}

type searcherFunc func(ctx context.Context, query string) ([]market.SearchHit, error)

func (f searcherFunc) Search(ctx context.Context, query string) ([]market.SearchHit, error) {
	return f(ctx, query)
}
