// Package compare assembles multi-asset comparison datasets: resolution,
// class-aware fetch strategy, indicator computation, timestamp alignment and
// index-100 normalization.
package compare

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"golang.org/x/time/rate"

	"finsight-api/pkg/market"
	"finsight-api/pkg/market/candles"
	"finsight-api/pkg/market/fetch"
	"finsight-api/pkg/market/indicators"
	"finsight-api/pkg/market/symbols"
)

// minAssets is the floor for the explicit-symbol cap: a comparison always
// admits at least two assets.
const minAssets = 2

// cryptoPaceInterval spaces sequential crypto fetches. The crypto upstream
// throttles burst traffic that the equities upstreams tolerate.
const cryptoPaceInterval = time.Second

// Request describes one comparison. Text is the raw user request used for
// candidate extraction and type classification; Tokens may be supplied
// directly by callers that already parsed the input.
type Request struct {
	Text   string
	Tokens []string
	Days   int
}

// Row is one table entry per compared asset, in input order.
type Row struct {
	Symbol          string           `json:"symbol"`
	DisplayName     string           `json:"displayName,omitempty"`
	CurrentPrice    float64          `json:"currentPrice"`
	Change24h       float64          `json:"change24h"`
	PeriodReturnPct float64          `json:"periodReturnPct"`
	Trend           indicators.Trend `json:"trend"`
	RSI             *float64         `json:"rsi"`
	MA20            *float64         `json:"ma20"`
	Support         float64          `json:"support"`
	Resistance      float64          `json:"resistance"`
	Volatility      float64          `json:"volatility"`
	Points          int              `json:"points"`
}

// Result is the comparison payload: table plus chart dataset.
type Result struct {
	Type     ComparisonType `json:"comparisonType"`
	Assets   []string       `json:"assets"`
	Table    []Row          `json:"table"`
	Chart    ChartData      `json:"chart"`
	Advisory string         `json:"advisory,omitempty"`
}

// Service orchestrates comparisons on top of the fetch pipeline.
type Service struct {
	fetch      *fetch.Service
	cryptoPace *rate.Limiter
}

// NewService constructs the orchestrator with the 1 req/s crypto pacer.
func NewService(f *fetch.Service) *Service {
	return &Service{
		fetch:      f,
		cryptoPace: rate.NewLimiter(rate.Every(cryptoPaceInterval), 1),
	}
}

// Compare resolves the requested assets, fetches their series with the
// class-appropriate strategy and assembles the aligned comparison dataset.
func (s *Service) Compare(ctx context.Context, req Request) (*Result, error) {
	tokens := req.Tokens
	limit := len(tokens)
	if len(tokens) == 0 && req.Text != "" {
		tokens = symbols.ExtractCandidates(req.Text)
		// Never compare more assets than the user explicitly named: stray
		// ticker-looking words must not inflate the set.
		limit = symbols.CountExplicitTickers(req.Text)
	}
	if limit < minAssets {
		limit = minAssets
	}

	resolved := s.resolveAssets(ctx, tokens, limit)
	if len(resolved) < minAssets {
		return nil, market.GuidanceErr("need at least two recognizable assets to compare; try naming tickers like BTC, ETH or AAPL")
	}
	if err := rejectMixedClasses(resolved); err != nil {
		return nil, err
	}

	comparisonType := ClassifyRequest(req.Text)
	verdict := EvaluateSufficiency(len(resolved), comparisonType)
	if !verdict.Proceed {
		return nil, market.GuidanceErr(verdict.Reason)
	}

	seriesList, err := s.fetchAll(ctx, resolved, req.Days)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Type:     comparisonType,
		Assets:   make([]string, len(seriesList)),
		Table:    make([]Row, len(seriesList)),
		Advisory: verdict.Advisory,
	}
	for i, series := range seriesList {
		ind := indicators.Compute(series.Candles)
		pre := candles.Preprocess(series, ind)
		result.Assets[i] = series.Symbol
		result.Table[i] = Row{
			Symbol:          series.Symbol,
			DisplayName:     series.DisplayName,
			CurrentPrice:    series.CurrentPrice,
			Change24h:       series.Change24h,
			PeriodReturnPct: pre.Statistics.PriceChangePct,
			Trend:           ind.Trend,
			RSI:             ind.RSI,
			MA20:            ind.MA20,
			Support:         pre.Statistics.PeriodLow,
			Resistance:      pre.Statistics.PeriodHigh,
			Volatility:      pre.Statistics.Volatility,
			Points:          len(series.Candles),
		}
	}
	result.Chart = Align(seriesList)
	return result, nil
}

// resolveAssets resolves tokens in order, de-duplicating by canonical symbol
// and stopping at the explicit cap.
func (s *Service) resolveAssets(ctx context.Context, tokens []string, limit int) []*symbols.ResolvedAsset {
	resolver := s.fetch.Resolver()
	seen := make(map[string]struct{}, limit)
	var out []*symbols.ResolvedAsset
	for _, token := range tokens {
		if len(out) >= limit {
			break
		}
		asset := resolver.Resolve(ctx, token)
		if asset == nil {
			logx.WithContext(ctx).Infof("compare: could not resolve token %q", token)
			continue
		}
		if _, dup := seen[asset.Symbol]; dup {
			continue
		}
		seen[asset.Symbol] = struct{}{}
		out = append(out, asset)
	}
	return out
}

func rejectMixedClasses(assets []*symbols.ResolvedAsset) error {
	class := assets[0].Class
	for _, a := range assets[1:] {
		if a.Class != class {
			return market.GuidanceErr("cannot compare crypto and equities together; pick assets from one class")
		}
	}
	return nil
}

// fetchAll applies the class-specific fetch strategy: equities issue all
// requests concurrently, crypto assets fetch sequentially behind the 1 req/s
// pacer. Result order matches input order either way.
func (s *Service) fetchAll(ctx context.Context, assets []*symbols.ResolvedAsset, days int) ([]*market.AssetSeries, error) {
	out := make([]*market.AssetSeries, len(assets))

	if assets[0].Class == market.ClassEquity {
		fns := make([]func() error, len(assets))
		for i := range assets {
			i := i
			fns[i] = func() error {
				series, err := s.fetch.EquitySeries(ctx, assets[i].Symbol, days)
				if err != nil {
					return err
				}
				out[i] = series
				return nil
			}
		}
		if err := mr.Finish(fns...); err != nil {
			return nil, err
		}
		return out, nil
	}

	for i, asset := range assets {
		if err := s.cryptoPace.Wait(ctx); err != nil {
			return nil, market.ClassifyTransport("compare", err)
		}
		series, err := s.fetch.CryptoSeriesResolved(ctx, asset, days)
		if err != nil {
			return nil, err
		}
		out[i] = series
	}
	return out, nil
}
