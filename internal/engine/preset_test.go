package engine

import (
	"testing"

	"github.com/tallow-games/bazaarsim/internal/market"
)

var presetDurations = map[string]int{
	"supply_shock":     200,
	"demand_surge":     150,
	"market_crash":     300,
	"trade_embargo":    350,
	"guild_monopoly":   250,
	"new_player_flood": 180,
	"seasonal_harvest": 120,
	"innovation_boom":  220,
}

func TestPresetCatalogComplete(t *testing.T) {
	ps := Presets()
	if len(ps) != 8 {
		t.Fatalf("preset catalog has %d entries, want 8", len(ps))
	}
	for _, p := range ps {
		want, ok := presetDurations[p.ID]
		if !ok {
			t.Errorf("unexpected preset %q", p.ID)
			continue
		}
		if p.Duration != want {
			t.Errorf("%s duration = %d, want %d", p.ID, p.Duration, want)
		}
		if len(p.Modifications) == 0 {
			t.Errorf("%s has no modifications", p.ID)
		}
		if p.Name == "" || p.Description == "" {
			t.Errorf("%s missing name or description", p.ID)
		}
	}
}

func TestPresetModificationsTargetCatalogItems(t *testing.T) {
	state := market.DefaultState()
	for _, p := range Presets() {
		for _, mod := range p.Modifications {
			if state.Item(mod.ItemID) == nil {
				t.Errorf("%s targets unknown item %q", p.ID, mod.ItemID)
			}
			if mod.Multiplier <= 0 {
				t.Errorf("%s has non-positive multiplier %f", p.ID, mod.Multiplier)
			}
		}
	}
}

func TestPresetByID(t *testing.T) {
	p, ok := PresetByID("supply_shock")
	if !ok {
		t.Fatal("supply_shock not found")
	}
	if p.Duration != 200 {
		t.Fatalf("supply_shock duration = %d, want 200", p.Duration)
	}

	if _, ok := PresetByID("nonexistent"); ok {
		t.Fatal("unknown preset id should report ok=false")
	}
}

func TestPresetsReturnsIndependentCopy(t *testing.T) {
	ps := Presets()
	ps[0].Duration = 9999
	ps[0].Modifications[0].Multiplier = 9999

	p, _ := PresetByID(ps[0].ID)
	if p.Duration == 9999 {
		t.Fatal("mutating the returned catalog changed a preset duration")
	}
	if p.Modifications[0].Multiplier == 9999 {
		t.Fatal("mutating the returned catalog changed a preset modification")
	}
}

func TestRunPreset(t *testing.T) {
	state := market.DefaultState()
	res, ok := RunPreset(state, "supply_shock", 42)
	if !ok {
		t.Fatal("supply_shock should run")
	}
	if res.Summary.Ticks != 200 {
		t.Fatalf("supply_shock ran %d ticks, want 200", res.Summary.Ticks)
	}

	// Halved supply keeps iron ore at or above its base for the whole run.
	iron := res.FinalState.Item("iron_ore")
	if iron.CurrentPrice < iron.BasePrice {
		t.Fatalf("iron_ore final price %f below base %f after supply shock", iron.CurrentPrice, iron.BasePrice)
	}
}

func TestRunPresetUnknown(t *testing.T) {
	res, ok := RunPreset(market.DefaultState(), "nope", 42)
	if ok || res != nil {
		t.Fatal("unknown preset should report ok=false with no result")
	}
}

func TestRunPresetAllDurations(t *testing.T) {
	state := market.DefaultState()
	for id, want := range presetDurations {
		res, ok := RunPreset(state, id, 7)
		if !ok {
			t.Fatalf("%s did not run", id)
		}
		if res.Summary.Ticks != want {
			t.Errorf("%s: ticks = %d, want %d", id, res.Summary.Ticks, want)
		}
	}
}
