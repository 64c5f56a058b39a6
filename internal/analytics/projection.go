package analytics

import (
	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

// ROIResult is a return-on-investment projection.
type ROIResult struct {
	ROI        float64 `json:"roi"`
	FinalValue float64 `json:"finalValue"`
	Profit     float64 `json:"profit"`
}

// ROI projects investing investAmount into one item and holding it for
// ticks ticks, using a deterministic forward simulation (same seed, same
// result). Zero investment, a nil state, or an unknown item degrade to
// zero-valued numeric outputs.
func ROI(investAmount float64, itemID string, ticks int, state *market.State, seed int64) ROIResult {
	if investAmount <= 0 || state == nil {
		return ROIResult{}
	}
	it := state.Item(itemID)
	if it == nil || it.CurrentPrice <= 0 {
		return ROIResult{}
	}

	units := investAmount / it.CurrentPrice
	res := engine.Simulate(state, nil, ticks, seed)
	series := res.PriceHistory[itemID]
	finalPrice := series[len(series)-1]

	finalValue := units * finalPrice
	profit := finalValue - investAmount
	return ROIResult{
		ROI:        profit / investAmount * 100,
		FinalValue: finalValue,
		Profit:     profit,
	}
}

const (
	// breakevenHorizon bounds the forward search.
	breakevenHorizon = 1000
	// breakevenSeed fixes the projection so repeated queries agree.
	breakevenSeed = 1337
	// defaultTargetFraction sets the default target profit to 10% of the
	// entry cost when the caller does not specify one.
	defaultTargetFraction = 0.10
)

// BreakevenResult reports the first tick a position reaches its target.
type BreakevenResult struct {
	Ticks          int     `json:"ticks"`
	Reachable      bool    `json:"reachable"`
	ExpectedPrice  float64 `json:"expectedPrice,omitempty"`
	ExpectedProfit float64 `json:"expectedProfit,omitempty"`
	MaxPrice       float64 `json:"maxPrice,omitempty"`
}

// Breakeven searches forward tick by tick, with the same price model the
// engine uses, for the first tick at which holding quantity units of the
// item realizes at least targetProfit. Quantity defaults to 1 and
// targetProfit to 10% of the entry cost. Returns Ticks = -1 when the
// target is not reached within the bounded horizon, or when the state or
// item is unknown.
func Breakeven(state *market.State, itemID string, quantity, targetProfit float64) BreakevenResult {
	notFound := BreakevenResult{Ticks: -1}
	if state == nil {
		return notFound
	}
	it := state.Item(itemID)
	if it == nil {
		return notFound
	}
	if quantity <= 0 {
		quantity = 1
	}
	if targetProfit <= 0 {
		targetProfit = defaultTargetFraction * quantity * it.CurrentPrice
	}

	res := engine.Simulate(state, nil, breakevenHorizon, breakevenSeed)
	series := res.PriceHistory[itemID]
	entry := series[0]

	maxPrice := entry
	for tick := 1; tick < len(series); tick++ {
		p := series[tick]
		if p > maxPrice {
			maxPrice = p
		}
		if quantity*(p-entry) >= targetProfit {
			return BreakevenResult{
				Ticks:          tick,
				Reachable:      true,
				ExpectedPrice:  p,
				ExpectedProfit: quantity * (p - entry),
			}
		}
	}
	notFound.MaxPrice = maxPrice
	return notFound
}
