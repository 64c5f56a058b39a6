// Package live maintains the mutable marketplace that the daemon ticks
// forward in real time. It wraps the deterministic pricing engine with a
// lock, a tick counter and a rolling per-item price history so that the
// websocket feed and the REST analytics endpoints can read a consistent
// view while the tick loop keeps running.
package live

import (
	"sync"

	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/market"
)

// DefaultHistoryDepth bounds the rolling per-item history kept in memory.
const DefaultHistoryDepth = 512

// TickUpdate describes one item's movement during a single live tick.
type TickUpdate struct {
	Tick          uint64  `json:"tick"`
	ItemID        string  `json:"itemId"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

// Market is the live, continuously-ticking marketplace.
type Market struct {
	mu           sync.RWMutex
	state        *market.State
	rng          *engine.RNG
	tick         uint64
	history      map[string][]float64
	historyDepth int
}

// New builds a live market over the given state and RNG. The state is
// snapshotted so the caller's copy is never mutated. historyDepth <= 0
// falls back to DefaultHistoryDepth.
func New(state *market.State, rng *engine.RNG, historyDepth int) *Market {
	if historyDepth <= 0 {
		historyDepth = DefaultHistoryDepth
	}
	s := market.Snapshot(state)
	hist := make(map[string][]float64, len(s.Items))
	for _, it := range s.Items {
		hist[it.ID] = append(hist[it.ID], it.CurrentPrice)
	}
	return &Market{
		state:        s,
		rng:          rng,
		history:      hist,
		historyDepth: historyDepth,
	}
}

// Advance runs one pricing tick over every item and returns the per-item
// updates in catalog order.
func (m *Market) Advance() []TickUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tick++
	updates := make([]TickUpdate, 0, len(m.state.Items))
	for i := range m.state.Items {
		it := &m.state.Items[i]
		prev := it.CurrentPrice
		engine.TickItem(it, m.rng)

		h := append(m.history[it.ID], it.CurrentPrice)
		if len(h) > m.historyDepth {
			h = h[len(h)-m.historyDepth:]
		}
		m.history[it.ID] = h

		change := 0.0
		if prev > 0 {
			change = (it.CurrentPrice - prev) / prev * 100
		}
		updates = append(updates, TickUpdate{
			Tick:          m.tick,
			ItemID:        it.ID,
			Price:         it.CurrentPrice,
			ChangePercent: change,
		})
	}
	return updates
}

// Tick returns the number of ticks advanced so far.
func (m *Market) Tick() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tick
}

// Snapshot returns an independent copy of the current state.
func (m *Market) Snapshot() *market.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return market.Snapshot(m.state)
}

// History returns a deep copy of the rolling price history, keyed by
// item id, oldest sample first.
func (m *Market) History() engine.PriceHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(engine.PriceHistory, len(m.history))
	for id, series := range m.history {
		cp := make([]float64, len(series))
		copy(cp, series)
		out[id] = cp
	}
	return out
}

// Restore replaces the live state and tick counter, used when resuming
// from a persisted snapshot. The history restarts from the restored
// prices.
func (m *Market) Restore(state *market.State, tick uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = market.Snapshot(state)
	m.tick = tick
	m.history = make(map[string][]float64, len(m.state.Items))
	for _, it := range m.state.Items {
		m.history[it.ID] = append(m.history[it.ID], it.CurrentPrice)
	}
}
