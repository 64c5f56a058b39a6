package analytics

import (
	"fmt"

	"github.com/tallow-games/bazaarsim/internal/market"
)

const (
	// arbMarginCoeff converts excess demand ratio into a sell-side margin.
	arbMarginCoeff = 0.10
	// maxArbMargin caps the projected resale margin at +50%.
	maxArbMargin = 0.50
)

// Opportunity is a detected single-item profit opportunity.
type Opportunity struct {
	ItemID        string  `json:"itemId"`
	BuyPrice      float64 `json:"buyPrice"`
	SellPrice     float64 `json:"sellPrice"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
}

// FindArbitrage scans the state for items whose demand exceeds supply and
// projects a resale margin proportional to the imbalance. Items without a
// positive price are skipped, so every entry satisfies SellPrice > BuyPrice
// and Profit >= 0. When itemIDs is non-empty only those items are
// considered. A nil state yields an empty list.
func FindArbitrage(state *market.State, itemIDs []string) []Opportunity {
	out := []Opportunity{}
	if state == nil {
		return out
	}

	var filter map[string]bool
	if len(itemIDs) > 0 {
		filter = make(map[string]bool, len(itemIDs))
		for _, id := range itemIDs {
			filter[id] = true
		}
	}

	for i := range state.Items {
		it := &state.Items[i]
		if filter != nil && !filter[it.ID] {
			continue
		}
		if it.Supply <= 0 || it.Demand <= it.Supply || it.CurrentPrice <= 0 {
			continue
		}
		margin := arbMarginCoeff * (it.Demand/it.Supply - 1)
		if margin > maxArbMargin {
			margin = maxArbMargin
		}
		buy := it.CurrentPrice
		sell := buy * (1 + margin)
		out = append(out, Opportunity{
			ItemID:        it.ID,
			BuyPrice:      buy,
			SellPrice:     sell,
			Profit:        sell - buy,
			ProfitPercent: margin * 100,
		})
	}
	return out
}

// RiskTolerance modulates how assertive strategy confidence is.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// buy/sell thresholds on the demand/supply ratio.
const (
	buyRatio  = 1.3
	sellRatio = 0.7
)

// Suggestion is one per-item trading recommendation.
type Suggestion struct {
	ItemID       string  `json:"itemId"`
	Action       string  `json:"action"`
	Reason       string  `json:"reason"`
	Confidence   float64 `json:"confidence"`
	CurrentPrice float64 `json:"currentPrice"`
	BasePrice    float64 `json:"basePrice"`
}

// SuggestStrategy produces one suggestion per item, driven by the
// demand/supply ratio: markedly above 1 means buy, markedly below means
// sell, otherwise hold. Risk tolerance scales confidence. The playerId is
// carried for the caller's bookkeeping and does not affect the result.
// A nil state yields an empty list.
func SuggestStrategy(state *market.State, playerID string, risk RiskTolerance) []Suggestion {
	out := []Suggestion{}
	if state == nil {
		return out
	}

	scale := 1.0
	switch risk {
	case RiskLow:
		scale = 0.8
	case RiskHigh:
		scale = 1.15
	}

	for i := range state.Items {
		it := &state.Items[i]
		ratio := 0.0
		if it.Supply > 0 {
			ratio = it.Demand / it.Supply
		}

		var action, reason string
		var confidence float64
		switch {
		case ratio >= buyRatio:
			action = "buy"
			reason = fmt.Sprintf("demand outstrips supply (ratio %.2f)", ratio)
			confidence = ratio - 1
		case ratio > 0 && ratio <= sellRatio:
			action = "sell"
			reason = fmt.Sprintf("supply outstrips demand (ratio %.2f)", ratio)
			confidence = 1 - ratio
		default:
			action = "hold"
			reason = fmt.Sprintf("market balanced (ratio %.2f)", ratio)
			confidence = 1 - clamp01(abs(ratio-1))
		}

		out = append(out, Suggestion{
			ItemID:       it.ID,
			Action:       action,
			Reason:       reason,
			Confidence:   clamp01(confidence * scale),
			CurrentPrice: it.CurrentPrice,
			BasePrice:    it.BasePrice,
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
