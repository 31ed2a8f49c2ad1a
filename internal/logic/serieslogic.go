package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/internal/svc"
	"finsight-api/internal/types"
	"finsight-api/pkg/market"
)

type SeriesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSeriesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SeriesLogic {
	return &SeriesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SeriesLogic) Series(req *types.SeriesReq) (*market.AssetSeries, error) {
	token, class, days, err := normalizeSeriesArgs(req.Symbol, req.Class, req.Days)
	if err != nil {
		return nil, err
	}
	if class != "" {
		return l.svcCtx.Fetch.GetMarketSeries(l.ctx, token, class, days)
	}

	resolved := l.svcCtx.Fetch.Resolver().Resolve(l.ctx, token)
	if resolved == nil {
		return nil, market.NotFoundErr(token)
	}
	return l.svcCtx.Fetch.GetMarketSeriesResolved(l.ctx, resolved, days)
}

// normalizeSeriesArgs validates the shared symbol/class/days triple used by
// the series and analysis endpoints.
func normalizeSeriesArgs(symbol, class string, days int) (string, market.AssetClass, int, error) {
	token := strings.TrimSpace(symbol)
	if token == "" {
		return "", "", 0, market.GuidanceErr("symbol is required")
	}
	if days <= 0 {
		days = 30
	}

	switch strings.ToLower(strings.TrimSpace(class)) {
	case "":
		return token, "", days, nil
	case string(market.ClassCrypto):
		return token, market.ClassCrypto, days, nil
	case string(market.ClassEquity):
		return token, market.ClassEquity, days, nil
	default:
		return "", "", 0, market.GuidanceErr("class must be crypto or equity")
	}
}
