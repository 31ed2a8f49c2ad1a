package compare

import "strings"

// ComparisonType classifies what kind of comparison the user asked for.
type ComparisonType string

const (
	TypeTimeTrend     ComparisonType = "time_trend"
	TypeEntityRanking ComparisonType = "entity_ranking"
	TypeMarketShare   ComparisonType = "market_share"
	TypeBenchmark     ComparisonType = "benchmark"
)

// thresholds carries the data-sufficiency levels for one comparison type.
type thresholds struct {
	Min    int
	Ideal  int
	Strong int
}

var guardThresholds = map[ComparisonType]thresholds{
	TypeTimeTrend:     {Min: 2, Ideal: 3, Strong: 5},
	TypeEntityRanking: {Min: 3, Ideal: 4, Strong: 6},
	TypeMarketShare:   {Min: 3, Ideal: 5, Strong: 8},
	TypeBenchmark:     {Min: 4, Ideal: 6, Strong: 10},
}

// ClassifyRequest picks a comparison type from keyword heuristics over the
// request text. Trend wording wins over ranking wording because trend
// requests usually include entity names too.
func ClassifyRequest(text string) ComparisonType {
	t := strings.ToLower(text)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("market share", "dominance", "share of"):
		return TypeMarketShare
	case contains("benchmark", "against the index", "relative to", "outperform"):
		return TypeBenchmark
	case contains("over time", "trend", "history", "growth", "since "):
		return TypeTimeTrend
	case contains("rank", "best", "top ", "strongest", "weakest"):
		return TypeEntityRanking
	default:
		return TypeTimeTrend
	}
}

// Verdict is the sufficiency decision for a comparison request.
type Verdict struct {
	Proceed bool
	// Advisory is attached to the response when the data count sits between
	// the minimum and strong thresholds. Empty means no caveat.
	Advisory string
	// Reason explains a refusal. Empty when Proceed is true.
	Reason string
}

// EvaluateSufficiency decides whether dataCount supports the comparison
// type. Pure function of its inputs; it must never perform I/O.
func EvaluateSufficiency(dataCount int, ct ComparisonType) Verdict {
	th, ok := guardThresholds[ct]
	if !ok {
		th = guardThresholds[TypeTimeTrend]
	}
	switch {
	case dataCount < th.Min:
		return Verdict{
			Proceed: false,
			Reason:  "not enough data for a " + string(ct) + " comparison; name more assets or broaden the request",
		}
	case dataCount < th.Ideal:
		return Verdict{
			Proceed:  true,
			Advisory: "limited data for a " + string(ct) + " comparison; results may not be representative",
		}
	case dataCount < th.Strong:
		return Verdict{
			Proceed:  true,
			Advisory: "a broader sample would strengthen this " + string(ct) + " comparison",
		}
	default:
		return Verdict{Proceed: true}
	}
}
