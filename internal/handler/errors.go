package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"finsight-api/pkg/market"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps the pipeline error taxonomy onto HTTP statuses. Guidance
// errors are the caller's input problem, not an upstream fault.
func statusFor(err error) int {
	switch market.KindOf(err) {
	case market.KindSymbolNotFound, market.KindNoData:
		return http.StatusNotFound
	case market.KindRateLimit:
		return http.StatusTooManyRequests
	case market.KindTimeout:
		return http.StatusGatewayTimeout
	case market.KindTransport, market.KindUpstream:
		return http.StatusBadGateway
	case market.KindGuidance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: string(market.KindOf(err)), Message: err.Error()}
	httpx.WriteJsonCtx(r.Context(), w, statusFor(err), body)
}
