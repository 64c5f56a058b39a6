package analytics

import (
	"testing"

	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

func TestHealthScoreRange(t *testing.T) {
	states := []*market.State{
		market.DefaultState(),
		{Items: []market.Item{{ID: "x", BasePrice: 10, Supply: 1, Demand: 1000, CurrentPrice: 500}}},
		{Items: []market.Item{{ID: "y", BasePrice: 10, Supply: 50, Demand: 50, CurrentPrice: 10}}},
	}
	for i, s := range states {
		score := MarketHealthScore(s)
		if score < 0 || score > 100 {
			t.Fatalf("state %d: score %f out of [0, 100]", i, score)
		}
	}
}

func TestHealthScoreFallback(t *testing.T) {
	if got := MarketHealthScore(nil); got != neutralHealthScore {
		t.Fatalf("nil state score = %f, want %f", got, neutralHealthScore)
	}
	if got := MarketHealthScore(&market.State{}); got != neutralHealthScore {
		t.Fatalf("empty state score = %f, want %f", got, neutralHealthScore)
	}
}

func TestHealthScoreRewardsBalance(t *testing.T) {
	balanced := &market.State{Items: []market.Item{
		{ID: "a", BasePrice: 10, Supply: 50, Demand: 50, CurrentPrice: 10},
	}}
	skewed := &market.State{Items: []market.Item{
		{ID: "a", BasePrice: 10, Supply: 10, Demand: 80, CurrentPrice: 30},
	}}
	if MarketHealthScore(balanced) <= MarketHealthScore(skewed) {
		t.Fatalf("balanced market (%f) should outscore skewed market (%f)",
			MarketHealthScore(balanced), MarketHealthScore(skewed))
	}
}

func TestHealthScoreDegradesAfterShock(t *testing.T) {
	state := market.DefaultState()
	res, _ := engine.RunPreset(state, "supply_shock", 42)

	before := MarketHealthScore(state)
	after := MarketHealthScore(res.FinalState)
	if after >= before {
		t.Fatalf("health should degrade after a supply shock: before %f, after %f", before, after)
	}
}
