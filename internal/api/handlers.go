package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tallow-games/bazaarsim/internal/analytics"
	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/persist"
)

// maxSimulateTicks caps on-demand simulation length per request.
const maxSimulateTicks = 10000

// handleItems returns the full catalog with live prices.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	state := s.market.Snapshot()
	writeJSON(w, http.StatusOK, state.Items)
}

// handleItemDetail returns a single item with its live price.
func (s *Server) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := s.market.Snapshot()
	it := state.Item(id)
	if it == nil {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// handlePresets returns the scenario preset catalog.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.Presets())
}

// handlePresetDetail returns a single preset.
func (s *Server) handlePresetDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := engine.PresetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "preset not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type simulateRequest struct {
	PresetID      string                `json:"presetId,omitempty"`
	Modifications []engine.Modification `json:"modifications,omitempty"`
	Ticks         int                   `json:"ticks,omitempty"`
	Seed          int64                 `json:"seed,omitempty"`
}

type simulateResponse struct {
	RunID        string               `json:"runId,omitempty"`
	PresetID     string               `json:"presetId,omitempty"`
	Seed         int64                `json:"seed"`
	Summary      engine.Summary       `json:"summary"`
	Events       []engine.Event       `json:"events"`
	PriceChanges []engine.PriceChange `json:"priceChanges"`
	PriceHistory engine.PriceHistory  `json:"priceHistory,omitempty"`
}

// handleSimulate runs a one-off simulation from the current live state,
// either from a named preset or from ad-hoc modifications, and persists
// the run when a writer is configured.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	mods := req.Modifications
	ticks := req.Ticks
	if req.PresetID != "" {
		p, ok := engine.PresetByID(req.PresetID)
		if !ok {
			writeError(w, http.StatusNotFound, "preset not found: "+req.PresetID)
			return
		}
		mods = p.Modifications
		if ticks <= 0 {
			ticks = p.Duration
		}
	}
	if ticks <= 0 {
		writeError(w, http.StatusBadRequest, "ticks must be positive")
		return
	}
	if ticks > maxSimulateTicks {
		writeError(w, http.StatusBadRequest, "ticks exceeds maximum")
		return
	}

	start := s.market.Snapshot()
	startedAt := time.Now()
	res := engine.Simulate(start, mods, ticks, req.Seed)

	resp := simulateResponse{
		PresetID:     req.PresetID,
		Seed:         req.Seed,
		Summary:      res.Summary,
		Events:       res.Events,
		PriceChanges: engine.DiffStates(start, res.FinalState),
	}
	if r.URL.Query().Get("history") == "true" {
		resp.PriceHistory = res.PriceHistory
	}

	if s.writer != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		run := &persist.Run{
			PresetID:      req.PresetID,
			Seed:          req.Seed,
			Ticks:         ticks,
			Modifications: mods,
			Summary:       res.Summary,
			Events:        res.Events,
			StartedAt:     startedAt,
			FinishedAt:    time.Now(),
		}
		if err := s.writer.SaveRun(ctx, run, res.PriceHistory); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.RunID = run.RunID
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRuns returns persisted runs, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	runs, err := s.reader.QueryRuns(ctx, persist.RunFilter{
		PresetID: r.URL.Query().Get("preset"),
		Limit:    parseIntParam(r, "limit", 100),
		Offset:   parseIntParam(r, "offset", 0),
		From:     parseTimeParam(r, "from"),
		To:       parseTimeParam(r, "to"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

type runDetailResponse struct {
	persist.Run
	PriceHistory engine.PriceHistory `json:"priceHistory"`
}

// handleRunDetail returns a single run with its recorded price series.
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	run, err := s.reader.QueryRun(ctx, id)
	if errors.Is(err, persist.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found: "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	history, err := s.reader.QueryRunHistory(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runDetailResponse{Run: *run, PriceHistory: history})
}

// handleHealth returns the aggregate market health score.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.market.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"score": analytics.MarketHealthScore(state),
		"tick":  s.market.Tick(),
	})
}

// handleArbitrage returns arbitrage opportunities, optionally restricted
// to ?items=a,b,c.
func (s *Server) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("items"); raw != "" {
		ids = strings.Split(raw, ",")
	}
	state := s.market.Snapshot()
	writeJSON(w, http.StatusOK, analytics.FindArbitrage(state, ids))
}

// handleStrategy returns per-item trading suggestions.
func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	risk := analytics.RiskTolerance(r.URL.Query().Get("risk"))
	switch risk {
	case "":
		risk = analytics.RiskMedium
	case analytics.RiskLow, analytics.RiskMedium, analytics.RiskHigh:
	default:
		writeError(w, http.StatusBadRequest, "risk must be low, medium or high")
		return
	}

	state := s.market.Snapshot()
	player := r.URL.Query().Get("player")
	writeJSON(w, http.StatusOK, analytics.SuggestStrategy(state, player, risk))
}

// handleTrend returns a price forecast for one item from the rolling
// live history.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := s.market.Snapshot()
	if state.Item(id) == nil {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}

	ticks := parseIntParam(r, "ticks", analytics.DefaultTicksAhead)
	forecast := analytics.PredictTrend(s.market.History(), id, ticks)
	writeJSON(w, http.StatusOK, forecast)
}

// handleVolatility returns the volatility index for one item.
func (s *Server) handleVolatility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := s.market.Snapshot()
	if state.Item(id) == nil {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}

	window := parseIntParam(r, "window", 32)
	value := analytics.VolatilityIndex(s.market.History(), id, window)
	writeJSON(w, http.StatusOK, map[string]any{
		"itemId":     id,
		"window":     window,
		"volatility": value,
	})
}

// handleCorrelation returns the Pearson correlation between two items'
// recent price series.
func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "a and b query parameters are required")
		return
	}

	window := parseIntParam(r, "window", 32)
	value := analytics.Correlation(s.market.History(), a, b, window)
	writeJSON(w, http.StatusOK, map[string]any{
		"a":           a,
		"b":           b,
		"window":      window,
		"correlation": value,
	})
}

// handleROI projects return on investment for an item via a forward
// simulation from the live state.
func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("item")
	amount := parseFloatParam(r, "amount", 0)
	if id == "" || amount <= 0 {
		writeError(w, http.StatusBadRequest, "item and a positive amount are required")
		return
	}

	state := s.market.Snapshot()
	if state.Item(id) == nil {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}

	ticks := parseIntParam(r, "ticks", 100)
	seed := parseInt64Param(r, "seed", 0)
	writeJSON(w, http.StatusOK, analytics.ROI(amount, id, ticks, state, seed))
}

// handleBreakeven estimates how many ticks until holding an item turns
// the requested profit.
func (s *Server) handleBreakeven(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("item")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item query parameter is required")
		return
	}

	state := s.market.Snapshot()
	if state.Item(id) == nil {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}

	quantity := parseFloatParam(r, "quantity", 1)
	target := parseFloatParam(r, "target", 0)
	writeJSON(w, http.StatusOK, analytics.Breakeven(state, id, quantity, target))
}

type statsResponse struct {
	Uptime     string     `json:"uptime"`
	Clients    int        `json:"clients"`
	Items      int        `json:"items"`
	Tick       uint64     `json:"tick"`
	TotalRuns  int64      `json:"totalRuns"`
	TotalTicks int64      `json:"totalTicks"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
}

// handleStats returns runtime and aggregate statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rs, err := s.reader.QueryRunStats(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state := s.market.Snapshot()
	writeJSON(w, http.StatusOK, statsResponse{
		Uptime:     time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:    s.mgr.ClientCount(),
		Items:      len(state.Items),
		Tick:       s.market.Tick(),
		TotalRuns:  rs.TotalRuns,
		TotalTicks: rs.TotalTicks,
		LastRunAt:  rs.LastRunAt,
	})
}
