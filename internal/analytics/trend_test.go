package analytics

import (
	"math"
	"testing"

	"github.com/tallow-games/bazaarsim/internal/engine"
)

func TestPredictTrendRising(t *testing.T) {
	h := engine.PriceHistory{"x": {10, 11, 12, 13, 14, 15}}
	f := PredictTrend(h, "x", 5)

	if f.Direction != DirectionUp {
		t.Fatalf("direction = %s, want up", f.Direction)
	}
	// Perfect line: predicted = 15 + 5*1 = 20.
	if math.Abs(f.PredictedPrice-20) > 1e-9 {
		t.Fatalf("predicted price = %f, want 20", f.PredictedPrice)
	}
	if f.Confidence != 1 {
		t.Fatalf("perfect trend confidence = %f, want 1", f.Confidence)
	}
}

func TestPredictTrendFalling(t *testing.T) {
	h := engine.PriceHistory{"x": {50, 45, 41, 38, 33}}
	f := PredictTrend(h, "x", 10)
	if f.Direction != DirectionDown {
		t.Fatalf("direction = %s, want down", f.Direction)
	}
	if f.Confidence <= 0.9 {
		t.Fatalf("steady decline confidence = %f, want > 0.9", f.Confidence)
	}
}

func TestPredictTrendStable(t *testing.T) {
	h := engine.PriceHistory{"x": {20, 20, 20, 20}}
	f := PredictTrend(h, "x", 10)
	if f.Direction != DirectionStable {
		t.Fatalf("direction = %s, want stable", f.Direction)
	}
	if math.Abs(f.PredictedPrice-20) > 1e-9 {
		t.Fatalf("predicted price = %f, want 20", f.PredictedPrice)
	}
}

func TestPredictTrendSentinels(t *testing.T) {
	h := engine.PriceHistory{"one": {5}}

	for _, id := range []string{"one", "missing"} {
		f := PredictTrend(h, id, 10)
		if f.PredictedPrice != 0 || f.Direction != DirectionUnknown || f.Confidence != 0 {
			t.Fatalf("%s: sentinel = %+v, want {0, unknown, 0}", id, f)
		}
	}
}

func TestPredictTrendDefaultHorizon(t *testing.T) {
	h := engine.PriceHistory{"x": {10, 12, 14}}
	f := PredictTrend(h, "x", 0)
	// slope 2, last index 2, default 10 ahead: 10 + 2*12 = 34.
	if math.Abs(f.PredictedPrice-34) > 1e-9 {
		t.Fatalf("default-horizon prediction = %f, want 34", f.PredictedPrice)
	}
}

func TestPredictTrendNeverNegative(t *testing.T) {
	h := engine.PriceHistory{"x": {5, 4, 3, 2, 1}}
	f := PredictTrend(h, "x", 50)
	if f.PredictedPrice < 0 {
		t.Fatalf("predicted price %f went negative", f.PredictedPrice)
	}
}

func TestPredictTrendConfidenceRange(t *testing.T) {
	h := engine.PriceHistory{"x": {10, 12, 11, 13, 12, 14, 13}}
	f := PredictTrend(h, "x", 10)
	if f.Confidence < 0 || f.Confidence > 1 {
		t.Fatalf("confidence %f out of [0, 1]", f.Confidence)
	}
	if f.Confidence >= 1 {
		t.Fatalf("zigzag series should not have full confidence, got %f", f.Confidence)
	}
}
