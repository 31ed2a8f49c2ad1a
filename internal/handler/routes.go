package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"finsight-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/market/series",
				Handler: MarketSeriesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/market/analysis",
				Handler: MarketAnalysisHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/market/compare",
				Handler: MarketCompareHandler(serverCtx),
			},
		},
	)
}
