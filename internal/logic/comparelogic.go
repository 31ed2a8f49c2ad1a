package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/internal/svc"
	"finsight-api/internal/types"
	"finsight-api/pkg/market"
	"finsight-api/pkg/market/compare"
)

type CompareLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCompareLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CompareLogic {
	return &CompareLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CompareLogic) Compare(req *types.CompareReq) (*types.CompareResp, error) {
	if len(req.Symbols) == 0 && strings.TrimSpace(req.Text) == "" {
		return nil, market.GuidanceErr("provide symbols or a text request to compare")
	}
	days := req.Days
	if days <= 0 {
		days = 30
	}
	return l.svcCtx.Compare.Compare(l.ctx, compare.Request{
		Text:   req.Text,
		Tokens: req.Symbols,
		Days:   days,
	})
}
