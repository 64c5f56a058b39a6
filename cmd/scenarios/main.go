// Command scenarios runs the built-in scenario presets offline and
// prints a per-preset report, without a database or server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tallow-games/bazaarsim/internal/analytics"
	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

func main() {
	presetID := flag.String("preset", "", "Run a single preset by id (empty = all)")
	seed := flag.Int64("seed", 1, "PRNG seed")
	ticks := flag.Int("ticks", 0, "Override preset duration (0 = use preset)")
	asJSON := flag.Bool("json", false, "Emit JSON instead of text")
	flag.Parse()

	presets := engine.Presets()
	if *presetID != "" {
		p, ok := engine.PresetByID(*presetID)
		if !ok {
			log.Fatalf("unknown preset: %s", *presetID)
		}
		presets = []engine.Preset{p}
	}

	state := market.DefaultState()
	reports := make([]report, 0, len(presets))
	for _, p := range presets {
		duration := p.Duration
		if *ticks > 0 {
			duration = *ticks
		}
		res := engine.Simulate(state, p.Modifications, duration, *seed)
		volatility := make(map[string]float64, len(state.Items))
		for _, it := range state.Items {
			volatility[it.ID] = analytics.VolatilityIndex(res.PriceHistory, it.ID, 0)
		}
		reports = append(reports, report{
			PresetID:     p.ID,
			Name:         p.Name,
			Ticks:        duration,
			Seed:         *seed,
			Summary:      res.Summary,
			Events:       len(res.Events),
			HealthAfter:  analytics.MarketHealthScore(res.FinalState),
			PriceChanges: engine.DiffStates(state, res.FinalState),
			Volatility:   volatility,
		})
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			log.Fatalf("encode report: %v", err)
		}
		return
	}

	for _, r := range reports {
		printReport(r)
	}
}

type report struct {
	PresetID     string               `json:"presetId"`
	Name         string               `json:"name"`
	Ticks        int                  `json:"ticks"`
	Seed         int64                `json:"seed"`
	Summary      engine.Summary       `json:"summary"`
	Events       int                  `json:"events"`
	HealthAfter  float64              `json:"healthAfter"`
	PriceChanges []engine.PriceChange `json:"priceChanges"`
	Volatility   map[string]float64   `json:"volatility"`
}

func printReport(r report) {
	fmt.Printf("=== %s (%s): %d ticks, seed %d ===\n", r.Name, r.PresetID, r.Ticks, r.Seed)
	fmt.Printf("events: %d   health after: %.1f\n", r.Events, r.HealthAfter)
	if r.Summary.BiggestGain.ItemID != "" {
		fmt.Printf("biggest gain: %s %+.2f%%\n", r.Summary.BiggestGain.ItemID, r.Summary.BiggestGain.ChangePercent)
	}
	if r.Summary.BiggestLoss.ItemID != "" {
		fmt.Printf("biggest loss: %s %+.2f%%\n", r.Summary.BiggestLoss.ItemID, r.Summary.BiggestLoss.ChangePercent)
	}
	for _, pc := range r.PriceChanges {
		fmt.Printf("  %-16s %9.2f -> %9.2f  %+7.2f%%  %-6s vol %.3f\n",
			pc.ItemID, pc.BeforePrice, pc.AfterPrice, pc.ChangePercent, pc.Trend, r.Volatility[pc.ItemID])
	}
	fmt.Println()
}
