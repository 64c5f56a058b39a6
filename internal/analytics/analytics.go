// Package analytics provides stateless decision-support queries over the
// states and price histories the simulation engine produces. Every
// function is a pure query: inputs are never mutated, and missing state,
// unknown item ids, or too-few samples degrade to documented sentinel
// results instead of errors.
package analytics

import (
	"math"

	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

// ComparePrices returns the per-item price change between two states,
// matched by item id in the before-state's order. Either input being nil
// yields an empty list.
func ComparePrices(before, after *market.State) []engine.PriceChange {
	return engine.DiffStates(before, after)
}

// window returns the most recent n samples of series, or the whole series
// when n <= 0 or exceeds its length.
func window(series []float64, n int) []float64 {
	if n <= 0 || n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// constant reports whether every sample equals the first. Used to return
// exact zeros for flat series instead of float-rounding dust.
func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// VolatilityIndex is the population standard deviation of the most recent
// w samples of one item's history (the full series when w <= 0). A
// constant series yields exactly 0; an unknown item or a series with
// fewer than two samples yields 0.
func VolatilityIndex(history engine.PriceHistory, itemID string, w int) float64 {
	series := window(history[itemID], w)
	if len(series) < 2 || constant(series) {
		return 0
	}
	m := mean(series)
	sumSq := 0.0
	for _, x := range series {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(series)))
}

// Correlation is the Pearson correlation of two items' histories over
// paired, time-aligned windows of the most recent w samples (full series
// when w <= 0). Either series missing, shorter than two samples, or
// having zero variance yields exactly 0; the result is always in [-1, 1].
func Correlation(history engine.PriceHistory, itemA, itemB string, w int) float64 {
	a, b := history[itemA], history[itemB]
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Align on the shorter series, most recent samples first.
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a = window(a, n)
	b = window(b, n)
	if w > 0 && w < n {
		a = window(a, w)
		b = window(b, w)
		n = w
	}
	if n < 2 || constant(a) || constant(b) {
		return 0
	}

	ma, mb := mean(a), mean(b)
	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - ma
		db := b[i] - mb
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	r := cov / math.Sqrt(varA*varB)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
