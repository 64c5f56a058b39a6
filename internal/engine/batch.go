package engine

import "github.com/tallow-games/bazaarsim/internal/market"

// Scenario is a caller-supplied batch descriptor.
type Scenario struct {
	ID            string         `json:"id"`
	Modifications []Modification `json:"modifications"`
	Duration      int            `json:"duration"`
}

// Trend classifies a price movement.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// stableBandPercent is the tolerance around zero within which a change
// counts as stable.
const stableBandPercent = 1.0

// PriceChange compares one item's price before and after a run.
type PriceChange struct {
	ItemID        string  `json:"itemId"`
	BeforePrice   float64 `json:"beforePrice"`
	AfterPrice    float64 `json:"afterPrice"`
	ChangePercent float64 `json:"changePercent"`
	Trend         Trend   `json:"trend"`
}

// ScenarioResult is one batch entry's outcome.
type ScenarioResult struct {
	ScenarioID   string        `json:"scenarioId"`
	Summary      Summary       `json:"summary"`
	PriceChanges []PriceChange `json:"priceChanges"`
	Result       *Result       `json:"-"`
}

// RunBatch runs each scenario against its own independent snapshot of the
// baseline state, in order. Scenarios cannot observe each other's
// mutations; the result is equivalent to sequential independent Simulate
// calls. An empty scenario list yields an empty result list.
func RunBatch(state *market.State, scenarios []Scenario, seed int64) []ScenarioResult {
	baseline := market.Snapshot(state)
	results := make([]ScenarioResult, 0, len(scenarios))

	for _, sc := range scenarios {
		res := Simulate(baseline, sc.Modifications, sc.Duration, seed)
		results = append(results, ScenarioResult{
			ScenarioID:   sc.ID,
			Summary:      res.Summary,
			PriceChanges: DiffStates(baseline, res.FinalState),
			Result:       res,
		})
	}
	return results
}

// DiffStates builds the per-item price change view between two states,
// matching items by id in the before-state's order.
func DiffStates(before, after *market.State) []PriceChange {
	if before == nil || after == nil {
		return []PriceChange{}
	}
	out := make([]PriceChange, 0, len(before.Items))
	for i := range before.Items {
		b := &before.Items[i]
		a := after.Item(b.ID)
		if a == nil {
			continue
		}
		pc := PriceChange{
			ItemID:      b.ID,
			BeforePrice: b.CurrentPrice,
			AfterPrice:  a.CurrentPrice,
		}
		if b.CurrentPrice > 0 {
			pc.ChangePercent = (a.CurrentPrice - b.CurrentPrice) / b.CurrentPrice * 100
		}
		pc.Trend = ClassifyChange(pc.ChangePercent)
		out = append(out, pc)
	}
	return out
}

// ClassifyChange maps a percent change to a trend using the stable band.
func ClassifyChange(changePercent float64) Trend {
	switch {
	case changePercent > stableBandPercent:
		return TrendUp
	case changePercent < -stableBandPercent:
		return TrendDown
	default:
		return TrendStable
	}
}
