// marketctl is a one-shot operator CLI for the market data pipeline.
//
// Usage:
//
//	marketctl [-f etc/finsight.yaml] [-days 30] [-class crypto|equity] series <symbol>
//	marketctl [-f etc/finsight.yaml] [-days 30] [-class crypto|equity] analysis <symbol>
//	marketctl [-f etc/finsight.yaml] [-days 30] compare <symbol> <symbol> [...]
//
// Diagnostics go to stderr; the result (JSON, or the analysis digest) goes
// to stdout so output can be piped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"finsight-api/internal/cli"
	"finsight-api/internal/config"
	"finsight-api/pkg/cache"
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/candles"
	"finsight-api/pkg/market/compare"
	"finsight-api/pkg/market/fetch"
	"finsight-api/pkg/market/indicators"

	// Import for side-effects: registers market providers
	_ "finsight-api/pkg/market/providers/coingecko"
	_ "finsight-api/pkg/market/providers/polygon"
	_ "finsight-api/pkg/market/providers/yahoo"
)

const runTimeout = 2 * time.Minute

func main() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stderr)

	configPath := flag.String("f", "etc/finsight.yaml", "the config file")
	days := flag.Int("days", 30, "lookback window in days")
	class := flag.String("class", "", "asset class: crypto or equity (inferred when empty)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
	}
	command, symbols := args[0], args[1:]

	marketCfg := loadMarketConfig(*configPath)
	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[marketctl] failed to build market providers: %v", err)
	}

	fetchSvc := fetch.NewService(cache.New(), providers)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	switch command {
	case "series":
		runSeries(ctx, fetchSvc, symbols[0], *class, *days)
	case "analysis":
		runAnalysis(ctx, fetchSvc, symbols[0], *class, *days)
	case "compare":
		runCompare(ctx, fetchSvc, symbols, *days)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: marketctl [-f config] [-days n] [-class crypto|equity] <series|analysis|compare> <symbol> [symbol...]")
	os.Exit(2)
}

// loadMarketConfig prefers the market section of the app config and falls
// back to the default project location.
func loadMarketConfig(path string) *market.Config {
	appCfg, err := config.Load(path)
	if err != nil {
		log.Printf("[marketctl] warning: failed to load app config: %v", err)
		return config.MustLoadMarket()
	}
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("[marketctl]   %s", line)
	}
	if appCfg.Market.Value != nil {
		return appCfg.Market.Value
	}
	return config.MustLoadMarket()
}

func fetchSeries(ctx context.Context, svc *fetch.Service, symbol, class string, days int) *market.AssetSeries {
	var (
		series *market.AssetSeries
		err    error
	)
	switch class {
	case "crypto":
		series, err = svc.GetMarketSeries(ctx, symbol, market.ClassCrypto, days)
	case "equity":
		series, err = svc.GetMarketSeries(ctx, symbol, market.ClassEquity, days)
	case "":
		resolved := svc.Resolver().Resolve(ctx, symbol)
		if resolved == nil {
			log.Fatalf("[marketctl] could not resolve %q to a known asset", symbol)
		}
		log.Printf("[marketctl] resolved %q -> %s (%s)", symbol, resolved.Symbol, resolved.Class)
		series, err = svc.GetMarketSeriesResolved(ctx, resolved, days)
	default:
		log.Fatalf("[marketctl] unknown class %q, expected crypto or equity", class)
	}
	if err != nil {
		log.Fatalf("[marketctl] fetch %s: %v", symbol, err)
	}
	return series
}

func runSeries(ctx context.Context, svc *fetch.Service, symbol, class string, days int) {
	series := fetchSeries(ctx, svc, symbol, class, days)
	log.Printf("[marketctl] %s: %d candles", series.Symbol, len(series.Candles))
	printJSON(series)
}

func runAnalysis(ctx context.Context, svc *fetch.Service, symbol, class string, days int) {
	series := fetchSeries(ctx, svc, symbol, class, days)
	ind := indicators.Compute(series.Candles)
	result := candles.Preprocess(series, ind)
	fmt.Println(result.Digest)
}

func runCompare(ctx context.Context, svc *fetch.Service, symbols []string, days int) {
	cmp := compare.NewService(svc)
	result, err := cmp.Compare(ctx, compare.Request{Tokens: symbols, Days: days})
	if err != nil {
		log.Fatalf("[marketctl] compare: %v", err)
	}
	log.Printf("[marketctl] compared %d assets (%s)", len(result.Assets), result.Type)
	printJSON(result)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("[marketctl] encode output: %v", err)
	}
}
