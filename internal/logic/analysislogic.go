package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/internal/svc"
	"finsight-api/internal/types"
	"finsight-api/pkg/market/candles"
	"finsight-api/pkg/market/indicators"
)

type AnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalysisLogic {
	return &AnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Analysis fetches the series and layers the derived views on top: the
// indicator set and the preprocessed candle analysis with its text digest.
func (l *AnalysisLogic) Analysis(req *types.AnalysisReq) (*types.AnalysisResp, error) {
	seriesLogic := NewSeriesLogic(l.ctx, l.svcCtx)
	series, err := seriesLogic.Series(&types.SeriesReq{
		Symbol: req.Symbol,
		Class:  req.Class,
		Days:   req.Days,
	})
	if err != nil {
		return nil, err
	}

	ind := indicators.Compute(series.Candles)
	analysis := candles.Preprocess(series, ind)

	return &types.AnalysisResp{
		Series:     series,
		Indicators: ind,
		Analysis:   analysis,
	}, nil
}
