package types

import (
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/candles"
	"finsight-api/pkg/market/compare"
	"finsight-api/pkg/market/indicators"
)

type SeriesReq struct {
	// Symbol is a ticker or free-form token ("btc", "RELIANCE", "apple").
	Symbol string `form:"symbol"`
	// Class restricts resolution to crypto or equity. Inferred when empty.
	Class string `form:"class,optional"`
	Days  int    `form:"days,default=30"`
}

type AnalysisReq struct {
	Symbol string `form:"symbol"`
	Class  string `form:"class,optional"`
	Days   int    `form:"days,default=30"`
}

type AnalysisResp struct {
	Series     *market.AssetSeries `json:"series"`
	Indicators indicators.Set      `json:"indicators"`
	Analysis   candles.Result      `json:"analysis"`
}

type CompareReq struct {
	// Text is the free-form request used for symbol extraction and
	// comparison-type classification. Symbols take precedence for asset
	// selection when both are set.
	Text    string   `json:"text,optional"`
	Symbols []string `json:"symbols,optional"`
	Days    int      `json:"days,default=30"`
}

type CompareResp = compare.Result
