package engine

import (
	"github.com/tallow-games/bazaarsim/internal/market"
)

const (
	// pressureCoeff scales the demand/supply imbalance into a per-tick
	// fractional price change.
	pressureCoeff = 0.01

	// maxPressure caps the pressure term so extreme imbalances cannot
	// blow a price up in a handful of ticks.
	maxPressure = 0.05

	// noiseAmp bounds the random perturbation. It is kept below the
	// pressure produced by a strong imbalance (ratio 1.5 or 0.5) so a
	// sustained shock moves price monotonically.
	noiseAmp = 0.004

	// minPrice is the floor every produced price is clamped to.
	minPrice = 0.01

	// minSupply guards the demand/supply ratio against division by zero
	// after aggressive supply modifications.
	minSupply = 0.0001
)

// TickItem advances one item's price by a single tick. Exposed for the
// live market loop; Simulate drives the same model internally.
func TickItem(it *market.Item, rng *RNG) {
	tickPrice(it, rng)
}

// tickPrice advances one item's price by a single tick: a pressure term
// from the demand/supply ratio plus a small bounded perturbation from rng,
// clamped so the result stays strictly positive.
func tickPrice(it *market.Item, rng *RNG) {
	supply := it.Supply
	if supply < minSupply {
		supply = minSupply
	}

	pressure := pressureCoeff * (it.Demand/supply - 1)
	if pressure > maxPressure {
		pressure = maxPressure
	} else if pressure < -maxPressure {
		pressure = -maxPressure
	}

	noise := noiseAmp * rng.Signed()

	price := it.CurrentPrice * (1 + pressure + noise)
	if price < minPrice {
		price = minPrice
	}
	it.CurrentPrice = price
}
