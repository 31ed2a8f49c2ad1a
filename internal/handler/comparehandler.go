package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"finsight-api/internal/logic"
	"finsight-api/internal/svc"
	"finsight-api/internal/types"
)

func MarketCompareHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CompareReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewCompareLogic(r.Context(), svcCtx)
		resp, err := l.Compare(&req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
