package analytics

import (
	"math"

	"github.com/tallow-games/bazaarsim/internal/engine"
)

// Trend directions. "unknown" is the sentinel for missing data.
const (
	DirectionUp      = "up"
	DirectionDown    = "down"
	DirectionStable  = "stable"
	DirectionUnknown = "unknown"
)

// DefaultTicksAhead is the projection horizon PredictTrend uses when the
// caller passes ticksAhead <= 0.
const DefaultTicksAhead = 10

// relative slope below which a trend counts as stable.
const stableSlopeRatio = 0.0005

// TrendForecast is a price projection from historical samples.
type TrendForecast struct {
	PredictedPrice float64 `json:"predictedPrice"`
	Direction      string  `json:"direction"`
	Confidence     float64 `json:"confidence"`
}

// PredictTrend fits a least-squares line through one item's price history
// and extrapolates ticksAhead ticks forward. Direction comes from the
// slope sign, confidence from how consistently the series follows the
// fitted line. Fewer than two samples or an unknown item yields the
// zero/unknown sentinel.
func PredictTrend(history engine.PriceHistory, itemID string, ticksAhead int) TrendForecast {
	series := history[itemID]
	if len(series) < 2 {
		return TrendForecast{Direction: DirectionUnknown}
	}
	if ticksAhead <= 0 {
		ticksAhead = DefaultTicksAhead
	}

	n := float64(len(series))
	// Least squares on (tick index, price).
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return TrendForecast{Direction: DirectionUnknown}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	predicted := intercept + slope*(n-1+float64(ticksAhead))
	if predicted < 0 {
		predicted = 0
	}

	m := sumY / n
	direction := DirectionStable
	if m > 0 && math.Abs(slope)/m >= stableSlopeRatio {
		if slope > 0 {
			direction = DirectionUp
		} else {
			direction = DirectionDown
		}
	}

	return TrendForecast{
		PredictedPrice: predicted,
		Direction:      direction,
		Confidence:     trendConsistency(series, slope),
	}
}

// trendConsistency measures what fraction of tick-to-tick moves agree
// with the fitted slope's sign, in [0, 1]. A flat series counts every
// zero move as agreement with a stable fit.
func trendConsistency(series []float64, slope float64) float64 {
	steps := len(series) - 1
	if steps == 0 {
		return 0
	}
	agree := 0
	for i := 1; i < len(series); i++ {
		d := series[i] - series[i-1]
		switch {
		case slope > 0 && d > 0:
			agree++
		case slope < 0 && d < 0:
			agree++
		case slope == 0 && d == 0:
			agree++
		}
	}
	return float64(agree) / float64(steps)
}
