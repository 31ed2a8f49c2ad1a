package svc

import (
	"log"

	"finsight-api/internal/config"
	"finsight-api/pkg/cache"
	marketpkg "finsight-api/pkg/market"
	"finsight-api/pkg/market/compare"
	"finsight-api/pkg/market/fetch"
	_ "finsight-api/pkg/market/providers/coingecko"
	_ "finsight-api/pkg/market/providers/polygon"
	_ "finsight-api/pkg/market/providers/yahoo"
)

type ServiceContext struct {
	Config config.Config

	Cache *cache.Cache

	MarketConfig    *marketpkg.Config
	MarketProviders *marketpkg.ProviderSet
	Fetch           *fetch.Service
	Compare         *compare.Service
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config: c,
		Cache:  cache.New(),
	}

	marketCfg := c.Market.Value
	if marketCfg == nil {
		log.Fatalf("market config is required (set Market.File in %s)", c.MainPath())
	}
	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build market providers: %v", err)
	}

	svc.MarketConfig = marketCfg
	svc.MarketProviders = providers
	svc.Fetch = fetch.NewService(svc.Cache, providers)
	svc.Compare = compare.NewService(svc.Fetch)
	return svc
}
