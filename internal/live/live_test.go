package live

import (
	"testing"

	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

func newTestMarket(depth int) *Market {
	return New(market.DefaultState(), engine.NewRNG(42), depth)
}

func TestAdvanceIncrementsTick(t *testing.T) {
	m := newTestMarket(64)
	if m.Tick() != 0 {
		t.Fatalf("fresh market should be at tick 0, got %d", m.Tick())
	}

	updates := m.Advance()
	if m.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", m.Tick())
	}
	if len(updates) != len(market.DefaultState().Items) {
		t.Fatalf("expected one update per item, got %d", len(updates))
	}
	for _, u := range updates {
		if u.Tick != 1 {
			t.Errorf("%s: update stamped with tick %d", u.ItemID, u.Tick)
		}
		if u.Price <= 0 {
			t.Errorf("%s: non-positive price %f", u.ItemID, u.Price)
		}
	}
}

func TestHistoryGrowsAndIsCapped(t *testing.T) {
	m := newTestMarket(8)

	for i := 0; i < 20; i++ {
		m.Advance()
	}

	hist := m.History()
	for id, series := range hist {
		if len(series) != 8 {
			t.Errorf("%s: expected history capped at 8, got %d", id, len(series))
		}
	}
}

func TestHistoryMatchesCurrentPrice(t *testing.T) {
	m := newTestMarket(64)
	for i := 0; i < 5; i++ {
		m.Advance()
	}

	state := m.Snapshot()
	hist := m.History()
	for _, it := range state.Items {
		series := hist[it.ID]
		if len(series) == 0 {
			t.Fatalf("%s: empty history", it.ID)
		}
		if series[len(series)-1] != it.CurrentPrice {
			t.Errorf("%s: last history sample %f, current price %f",
				it.ID, series[len(series)-1], it.CurrentPrice)
		}
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	m := newTestMarket(64)
	snap := m.Snapshot()
	snap.Items[0].CurrentPrice = -999

	if m.Snapshot().Items[0].CurrentPrice == -999 {
		t.Fatal("snapshot mutation leaked into live market")
	}
}

func TestHistoryCopyIsIndependent(t *testing.T) {
	m := newTestMarket(64)
	m.Advance()

	hist := m.History()
	for id := range hist {
		hist[id][0] = -999
	}

	for id, series := range m.History() {
		if series[0] == -999 {
			t.Fatalf("%s: history mutation leaked into live market", id)
		}
	}
}

func TestRestore(t *testing.T) {
	m := newTestMarket(64)
	for i := 0; i < 10; i++ {
		m.Advance()
	}

	state := market.DefaultState()
	state.Item("bread").CurrentPrice = 9.99
	m.Restore(state, 500)

	if m.Tick() != 500 {
		t.Fatalf("expected restored tick 500, got %d", m.Tick())
	}
	if got := m.Snapshot().Item("bread").CurrentPrice; got != 9.99 {
		t.Fatalf("expected restored bread price 9.99, got %f", got)
	}

	hist := m.History()
	if len(hist["bread"]) != 1 {
		t.Fatalf("restore should reset history, got %d samples", len(hist["bread"]))
	}
}

// The daemon shares one RNG between the tick loop and the snapshotter;
// exercised here under the race detector.
func TestConcurrentAdvanceAndRNGCapture(t *testing.T) {
	rng := engine.NewRNG(42)
	m := New(market.DefaultState(), rng, 64)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			m.Advance()
		}
	}()

	for i := 0; i < 200; i++ {
		if got := rng.StateBytes(); len(got) != 16 {
			t.Errorf("expected 16 state bytes, got %d", len(got))
			break
		}
	}
	<-done
}

func TestDeterministicWithSameSeed(t *testing.T) {
	a := newTestMarket(64)
	b := newTestMarket(64)

	for i := 0; i < 50; i++ {
		a.Advance()
		b.Advance()
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Items {
		if sa.Items[i].CurrentPrice != sb.Items[i].CurrentPrice {
			t.Errorf("%s: prices diverged with identical seeds", sa.Items[i].ID)
		}
	}
}
