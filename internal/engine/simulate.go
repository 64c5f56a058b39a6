package engine

import (
	"fmt"

	"github.com/tallow-games/bazaarsim/internal/market"
)

// Field names an item attribute a Modification may scale.
type Field string

const (
	FieldSupply Field = "supply"
	FieldDemand Field = "demand"
)

// Modification is a one-time instruction applied before the first tick:
// it scales the named field of the named item by Multiplier. Modifications
// targeting an unknown item id are silently ignored.
type Modification struct {
	ItemID     string  `json:"itemId"`
	Field      Field   `json:"field"`
	Multiplier float64 `json:"multiplier"`
}

// PriceHistory maps an item id to its ordered price samples, one per tick
// including tick 0, so a run of N ticks yields sequences of length N+1.
type PriceHistory map[string][]float64

// Event records a notable occurrence during a run.
type Event struct {
	Tick   int    `json:"tick"`
	ItemID string `json:"itemId"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// ItemMove describes one item's price movement over a run.
type ItemMove struct {
	ItemID        string  `json:"itemId"`
	StartPrice    float64 `json:"startPrice"`
	EndPrice      float64 `json:"endPrice"`
	ChangePercent float64 `json:"changePercent"`
}

// Summary aggregates a finished run.
type Summary struct {
	Ticks       int      `json:"ticks"`
	ItemCount   int      `json:"itemCount"`
	EventCount  int      `json:"events"`
	BiggestGain ItemMove `json:"biggestGain"`
	BiggestLoss ItemMove `json:"biggestLoss"`
}

// Result is everything a simulation run produces. It is owned solely by
// the caller; the engine retains no reference to past results.
type Result struct {
	FinalState   *market.State `json:"finalState"`
	PriceHistory PriceHistory  `json:"priceHistory"`
	Events       []Event       `json:"events"`
	Summary      Summary       `json:"summary"`
}

// surge/collapse event thresholds, relative to an item's base price.
const (
	surgeFactor    = 1.5
	collapseFactor = 0.5
)

// Simulate runs the price model over an internal snapshot of state for the
// given number of ticks. The input state is never mutated; identical
// (state, mods, ticks, seed) arguments always produce identical histories.
func Simulate(state *market.State, mods []Modification, ticks int, seed int64) *Result {
	if ticks < 0 {
		ticks = 0
	}

	snap := market.Snapshot(state)
	rng := NewRNG(seed)

	var events []Event
	for _, mod := range mods {
		if applyModification(snap, mod) {
			events = append(events, Event{
				Tick:   0,
				ItemID: mod.ItemID,
				Type:   "modification",
				Detail: fmt.Sprintf("%s x%g", mod.Field, mod.Multiplier),
			})
		}
	}

	history := make(PriceHistory, len(snap.Items))
	start := make(map[string]float64, len(snap.Items))
	surged := make(map[string]bool, len(snap.Items))
	collapsed := make(map[string]bool, len(snap.Items))

	for i := range snap.Items {
		it := &snap.Items[i]
		seq := make([]float64, 0, ticks+1)
		history[it.ID] = append(seq, it.CurrentPrice)
		start[it.ID] = it.CurrentPrice
	}

	for tick := 1; tick <= ticks; tick++ {
		for i := range snap.Items {
			it := &snap.Items[i]
			tickPrice(it, rng)
			history[it.ID] = append(history[it.ID], it.CurrentPrice)

			if !surged[it.ID] && it.CurrentPrice >= it.BasePrice*surgeFactor {
				surged[it.ID] = true
				events = append(events, Event{
					Tick:   tick,
					ItemID: it.ID,
					Type:   "surge",
					Detail: fmt.Sprintf("price crossed %.0f%% of base", surgeFactor*100),
				})
			}
			if !collapsed[it.ID] && it.CurrentPrice <= it.BasePrice*collapseFactor {
				collapsed[it.ID] = true
				events = append(events, Event{
					Tick:   tick,
					ItemID: it.ID,
					Type:   "collapse",
					Detail: fmt.Sprintf("price fell below %.0f%% of base", collapseFactor*100),
				})
			}
		}
	}

	summary := Summary{
		Ticks:      ticks,
		ItemCount:  len(snap.Items),
		EventCount: len(events),
	}
	first := true
	for i := range snap.Items {
		it := &snap.Items[i]
		move := ItemMove{
			ItemID:     it.ID,
			StartPrice: start[it.ID],
			EndPrice:   it.CurrentPrice,
		}
		if move.StartPrice > 0 {
			move.ChangePercent = (move.EndPrice - move.StartPrice) / move.StartPrice * 100
		}
		if first || move.ChangePercent > summary.BiggestGain.ChangePercent {
			summary.BiggestGain = move
		}
		if first || move.ChangePercent < summary.BiggestLoss.ChangePercent {
			summary.BiggestLoss = move
		}
		first = false
	}

	return &Result{
		FinalState:   snap,
		PriceHistory: history,
		Events:       events,
		Summary:      summary,
	}
}

// applyModification scales the named field on the snapshot. Returns false
// for unknown item ids or fields.
func applyModification(s *market.State, mod Modification) bool {
	it := s.Item(mod.ItemID)
	if it == nil {
		return false
	}
	switch mod.Field {
	case FieldSupply:
		it.Supply *= mod.Multiplier
	case FieldDemand:
		it.Demand *= mod.Multiplier
	default:
		return false
	}
	return true
}
