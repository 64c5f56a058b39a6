package analytics

import (
	"testing"

	"github.com/tallow-games/bazaarsim/internal/market"
)

func TestFindArbitrageShape(t *testing.T) {
	state := market.DefaultState()
	opps := FindArbitrage(state, nil)
	if len(opps) == 0 {
		t.Fatal("default catalog should contain demand-heavy items")
	}
	for _, o := range opps {
		if o.SellPrice <= o.BuyPrice {
			t.Errorf("%s: sell %f not above buy %f", o.ItemID, o.SellPrice, o.BuyPrice)
		}
		if o.Profit < 0 || o.ProfitPercent < 0 {
			t.Errorf("%s: negative profit %f / %f%%", o.ItemID, o.Profit, o.ProfitPercent)
		}
		it := state.Item(o.ItemID)
		if it.Demand <= it.Supply {
			t.Errorf("%s qualified without excess demand", o.ItemID)
		}
	}
}

func TestFindArbitrageIncludesScarceGood(t *testing.T) {
	opps := FindArbitrage(market.DefaultState(), nil)
	for _, o := range opps {
		if o.ItemID == "crystal_shard" {
			return
		}
	}
	t.Fatal("crystal_shard (demand > supply by design) missing from arbitrage list")
}

func TestFindArbitrageRestricted(t *testing.T) {
	opps := FindArbitrage(market.DefaultState(), []string{"crystal_shard"})
	if len(opps) != 1 || opps[0].ItemID != "crystal_shard" {
		t.Fatalf("restricted scan = %+v, want only crystal_shard", opps)
	}

	// Restricting to a balanced item yields nothing.
	if got := FindArbitrage(market.DefaultState(), []string{"timber"}); len(got) != 0 {
		t.Fatalf("timber should not qualify, got %+v", got)
	}
}

func TestFindArbitrageSkipsUnpricedItems(t *testing.T) {
	// A hand-built state can carry a zero or negative price; such items
	// must not qualify, so SellPrice > BuyPrice holds unconditionally.
	state := &market.State{Items: []market.Item{
		{ID: "unpriced", BasePrice: 10, Supply: 10, Demand: 30, CurrentPrice: 0},
		{ID: "negative", BasePrice: 10, Supply: 10, Demand: 30, CurrentPrice: -5},
		{ID: "priced", BasePrice: 10, Supply: 10, Demand: 30, CurrentPrice: 10},
	}}

	opps := FindArbitrage(state, nil)
	if len(opps) != 1 || opps[0].ItemID != "priced" {
		t.Fatalf("expected only the priced item to qualify, got %+v", opps)
	}
	if opps[0].SellPrice <= opps[0].BuyPrice {
		t.Errorf("sell %f not above buy %f", opps[0].SellPrice, opps[0].BuyPrice)
	}
}

func TestFindArbitrageAbsentState(t *testing.T) {
	if got := FindArbitrage(nil, nil); len(got) != 0 {
		t.Fatalf("nil state should yield empty list, got %d", len(got))
	}
}

func TestSuggestStrategyActions(t *testing.T) {
	state := &market.State{Items: []market.Item{
		{ID: "hot", BasePrice: 10, Supply: 10, Demand: 20, CurrentPrice: 10},
		{ID: "cold", BasePrice: 10, Supply: 20, Demand: 10, CurrentPrice: 10},
		{ID: "even", BasePrice: 10, Supply: 15, Demand: 15, CurrentPrice: 10},
	}}

	sugs := SuggestStrategy(state, "player-1", RiskMedium)
	if len(sugs) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(sugs))
	}

	byID := make(map[string]Suggestion, len(sugs))
	for _, s := range sugs {
		byID[s.ItemID] = s
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("%s: confidence %f out of [0, 1]", s.ItemID, s.Confidence)
		}
		if s.Reason == "" {
			t.Errorf("%s: empty reason", s.ItemID)
		}
		if s.CurrentPrice != 10 || s.BasePrice != 10 {
			t.Errorf("%s: prices not echoed: %+v", s.ItemID, s)
		}
	}

	if byID["hot"].Action != "buy" {
		t.Errorf("hot action = %s, want buy", byID["hot"].Action)
	}
	if byID["cold"].Action != "sell" {
		t.Errorf("cold action = %s, want sell", byID["cold"].Action)
	}
	if byID["even"].Action != "hold" {
		t.Errorf("even action = %s, want hold", byID["even"].Action)
	}
}

func TestSuggestStrategyRiskModulation(t *testing.T) {
	state := &market.State{Items: []market.Item{
		{ID: "hot", BasePrice: 10, Supply: 10, Demand: 15, CurrentPrice: 10},
	}}

	low := SuggestStrategy(state, "p", RiskLow)[0].Confidence
	med := SuggestStrategy(state, "p", RiskMedium)[0].Confidence
	high := SuggestStrategy(state, "p", RiskHigh)[0].Confidence

	if !(low < med && med < high) {
		t.Fatalf("confidence should rise with risk tolerance: low=%f med=%f high=%f", low, med, high)
	}
}

func TestSuggestStrategyAbsentState(t *testing.T) {
	if got := SuggestStrategy(nil, "p", RiskMedium); len(got) != 0 {
		t.Fatalf("nil state should yield empty list, got %d", len(got))
	}
}
