package analytics

import "github.com/tallow-games/bazaarsim/internal/market"

// neutralHealthScore is returned for an absent or empty state.
const neutralHealthScore = 50.0

// per-item penalty weights for MarketHealthScore.
const (
	imbalanceWeight = 60.0
	deviationWeight = 40.0
)

// MarketHealthScore is a composite score in [0, 100]: balanced
// supply/demand and prices near base score high, extreme imbalance and
// drifted prices score low. An absent or empty state returns the neutral
// fallback.
func MarketHealthScore(state *market.State) float64 {
	if state == nil || len(state.Items) == 0 {
		return neutralHealthScore
	}

	total := 0.0
	for i := range state.Items {
		it := &state.Items[i]

		imbalance := 1.0
		if it.Supply > 0 && it.Demand > 0 {
			ratio := it.Demand / it.Supply
			if ratio < 1 {
				ratio = 1 / ratio
			}
			imbalance = clamp01(ratio - 1)
		}

		deviation := 1.0
		if it.BasePrice > 0 {
			deviation = clamp01(abs(it.CurrentPrice-it.BasePrice) / it.BasePrice)
		}

		score := 100 - imbalanceWeight*imbalance - deviationWeight*deviation
		if score < 0 {
			score = 0
		}
		total += score
	}

	avg := total / float64(len(state.Items))
	if avg > 100 {
		avg = 100
	}
	return avg
}
