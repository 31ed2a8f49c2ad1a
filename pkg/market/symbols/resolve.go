package symbols

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/pkg/market"
)

// ResolvedAsset is the output of symbol resolution: a canonical identifier
// plus the asset class the identifier belongs to. Never mutated after
// creation.
type ResolvedAsset struct {
	InputToken string
	Class      market.AssetClass
	// Symbol is the user-facing canonical symbol (ticker for equities,
	// upper-cased abbreviation for crypto).
	Symbol string
	// ProviderID is the crypto provider's asset id (e.g. "bitcoin"). Empty
	// for equities.
	ProviderID string
}

// Searcher is the provider surface resolution needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]market.SearchHit, error)
}

// Resolver maps free-form tokens to resolved assets, using the deterministic
// tables first and provider search endpoints as fallback.
type Resolver struct {
	crypto Searcher
	equity Searcher
}

// NewResolver wires the per-class search fallbacks. Either searcher may be
// nil, in which case that fallback is skipped.
func NewResolver(crypto, equity Searcher) *Resolver {
	return &Resolver{crypto: crypto, equity: equity}
}

// ResolveCrypto resolves a token against the crypto universe. Returns nil
// when the token cannot be resolved; resolution failure is not an error.
func (r *Resolver) ResolveCrypto(ctx context.Context, token string) *ResolvedAsset {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil
	}
	if KnownCrypto(trimmed) {
		return &ResolvedAsset{
			InputToken: token,
			Class:      market.ClassCrypto,
			Symbol:     strings.ToUpper(trimmed),
			ProviderID: NormalizeCrypto(trimmed),
		}
	}
	if r.crypto == nil {
		return nil
	}
	hit := r.searchBestMatch(ctx, r.crypto, trimmed)
	if hit == nil {
		return nil
	}
	symbol := strings.ToUpper(hit.Symbol)
	if symbol == "" {
		symbol = strings.ToUpper(trimmed)
	}
	return &ResolvedAsset{
		InputToken: token,
		Class:      market.ClassCrypto,
		Symbol:     symbol,
		ProviderID: hit.ID,
	}
}

// ResolveEquity resolves a token against the equities universe. Returns nil
// when the token cannot be resolved.
func (r *Resolver) ResolveEquity(ctx context.Context, token string) *ResolvedAsset {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil
	}
	if IsDomestic(trimmed) {
		return &ResolvedAsset{
			InputToken: token,
			Class:      market.ClassEquity,
			Symbol:     NormalizeEquity(trimmed),
		}
	}
	if r.equity == nil {
		return nil
	}
	hit := r.searchBestMatch(ctx, r.equity, trimmed)
	if hit == nil {
		return nil
	}
	symbol := strings.ToUpper(hit.Symbol)
	if symbol == "" {
		symbol = strings.ToUpper(hit.ID)
	}
	if symbol == "" {
		return nil
	}
	return &ResolvedAsset{
		InputToken: token,
		Class:      market.ClassEquity,
		Symbol:     symbol,
	}
}

// Resolve tries both asset classes for a token: deterministic crypto table,
// deterministic domestic-equity table, then equity search, then crypto
// search. Returns nil when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, token string) *ResolvedAsset {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil
	}
	if KnownCrypto(trimmed) {
		return r.ResolveCrypto(ctx, trimmed)
	}
	if IsDomestic(trimmed) {
		return r.ResolveEquity(ctx, trimmed)
	}
	if asset := r.ResolveEquity(ctx, trimmed); asset != nil {
		return asset
	}
	return r.ResolveCrypto(ctx, trimmed)
}

// searchBestMatch issues the provider search and picks the entry whose
// symbol, id or name matches the token case-insensitively, falling back to
// the top result. Transport failures resolve to nil (callers must handle).
func (r *Resolver) searchBestMatch(ctx context.Context, s Searcher, token string) *market.SearchHit {
	hits, err := s.Search(ctx, token)
	if err != nil {
		logx.WithContext(ctx).Infof("symbols: search %q failed: %v", token, err)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}
	for i := range hits {
		h := hits[i]
		if strings.EqualFold(h.Symbol, token) || strings.EqualFold(h.ID, token) || strings.EqualFold(h.Name, token) {
			return &h
		}
	}
	return &hits[0]
}
