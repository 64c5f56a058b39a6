package engine

import "github.com/tallow-games/bazaarsim/internal/market"

// Preset is a named, pre-authored scenario: a fixed modification set run
// for a fixed duration. The catalog is immutable for the life of the
// process; Presets returns an independent copy.
type Preset struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Modifications []Modification `json:"modifications"`
	Duration      int            `json:"duration"`
}

// presetCatalog returns the 8 built-in scenarios. Returned fresh so no
// caller can reach the same backing arrays twice.
func presetCatalog() []Preset {
	return []Preset{
		{
			ID:          "supply_shock",
			Name:        "Supply Shock",
			Description: "A mine collapse halves the iron ore supply.",
			Modifications: []Modification{
				{ItemID: "iron_ore", Field: FieldSupply, Multiplier: 0.5},
			},
			Duration: 200,
		},
		{
			ID:          "demand_surge",
			Name:        "Demand Surge",
			Description: "Enchanters double their appetite for crystal shards.",
			Modifications: []Modification{
				{ItemID: "crystal_shard", Field: FieldDemand, Multiplier: 2.0},
			},
			Duration: 150,
		},
		{
			ID:          "market_crash",
			Name:        "Market Crash",
			Description: "Buyers vanish across the board.",
			Modifications: []Modification{
				{ItemID: "iron_sword", Field: FieldDemand, Multiplier: 0.4},
				{ItemID: "steel_armor", Field: FieldDemand, Multiplier: 0.4},
				{ItemID: "enchanted_ring", Field: FieldDemand, Multiplier: 0.3},
				{ItemID: "crystal_shard", Field: FieldDemand, Multiplier: 0.4},
			},
			Duration: 300,
		},
		{
			ID:          "trade_embargo",
			Name:        "Trade Embargo",
			Description: "Imported luxuries and reagents stop arriving.",
			Modifications: []Modification{
				{ItemID: "crystal_shard", Field: FieldSupply, Multiplier: 0.3},
				{ItemID: "enchanted_ring", Field: FieldSupply, Multiplier: 0.3},
			},
			Duration: 350,
		},
		{
			ID:          "guild_monopoly",
			Name:        "Guild Monopoly",
			Description: "The smiths' guild corners weapons and armor.",
			Modifications: []Modification{
				{ItemID: "iron_sword", Field: FieldSupply, Multiplier: 0.4},
				{ItemID: "steel_armor", Field: FieldSupply, Multiplier: 0.4},
			},
			Duration: 250,
		},
		{
			ID:          "new_player_flood",
			Name:        "New Player Flood",
			Description: "Fresh adventurers buy out the starter goods.",
			Modifications: []Modification{
				{ItemID: "bread", Field: FieldDemand, Multiplier: 1.8},
				{ItemID: "iron_sword", Field: FieldDemand, Multiplier: 1.8},
				{ItemID: "healing_potion", Field: FieldDemand, Multiplier: 1.8},
			},
			Duration: 180,
		},
		{
			ID:          "seasonal_harvest",
			Name:        "Seasonal Harvest",
			Description: "Autumn doubles the flow of food and herbs.",
			Modifications: []Modification{
				{ItemID: "bread", Field: FieldSupply, Multiplier: 2.0},
				{ItemID: "herbs", Field: FieldSupply, Multiplier: 2.0},
			},
			Duration: 120,
		},
		{
			ID:          "innovation_boom",
			Name:        "Innovation Boom",
			Description: "A new enchanting technique spikes reagent demand.",
			Modifications: []Modification{
				{ItemID: "crystal_shard", Field: FieldDemand, Multiplier: 1.6},
				{ItemID: "mana_potion", Field: FieldDemand, Multiplier: 1.6},
			},
			Duration: 220,
		},
	}
}

// Presets returns a copy of the full scenario catalog. Mutating the copy
// does not affect the catalog.
func Presets() []Preset {
	return presetCatalog()
}

// PresetByID looks up a preset. Lookup is a query: an unknown id reports
// ok=false rather than an error.
func PresetByID(id string) (Preset, bool) {
	for _, p := range presetCatalog() {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// RunPreset resolves a preset and runs it against the given state.
// Returns ok=false without running anything when the id is unknown.
func RunPreset(state *market.State, presetID string, seed int64) (*Result, bool) {
	p, ok := PresetByID(presetID)
	if !ok {
		return nil, false
	}
	return Simulate(state, p.Modifications, p.Duration, seed), true
}
