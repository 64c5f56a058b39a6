// Package api exposes the REST surface of the daemon: catalog and preset
// lookups, on-demand simulations, persisted run queries, and the
// analytics endpoints backed by the live market.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tallow-games/bazaarsim/internal/live"
	"github.com/tallow-games/bazaarsim/internal/persist"
	"github.com/tallow-games/bazaarsim/internal/session"
)

// Server provides REST API endpoints for the simulator.
type Server struct {
	reader  persist.RunReader
	writer  persist.RunWriter // nil when persistence is disabled
	market  *live.Market
	mgr     *session.Manager
	startAt time.Time
}

// NewServer creates a new API server. writer may be nil.
func NewServer(reader persist.RunReader, writer persist.RunWriter, m *live.Market, mgr *session.Manager) *Server {
	return &Server{
		reader:  reader,
		writer:  writer,
		market:  m,
		mgr:     mgr,
		startAt: time.Now(),
	}
}

// Register attaches API routes to the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", s.handleItems)
	mux.HandleFunc("GET /api/items/{id}", s.handleItemDetail)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("GET /api/presets/{id}", s.handlePresetDetail)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRunDetail)
	mux.HandleFunc("GET /api/analytics/health", s.handleHealth)
	mux.HandleFunc("GET /api/analytics/arbitrage", s.handleArbitrage)
	mux.HandleFunc("GET /api/analytics/strategy", s.handleStrategy)
	mux.HandleFunc("GET /api/analytics/trend/{id}", s.handleTrend)
	mux.HandleFunc("GET /api/analytics/volatility/{id}", s.handleVolatility)
	mux.HandleFunc("GET /api/analytics/correlation", s.handleCorrelation)
	mux.HandleFunc("GET /api/analytics/roi", s.handleROI)
	mux.HandleFunc("GET /api/analytics/breakeven", s.handleBreakeven)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseInt64Param parses an int64 query parameter with a default value.
func parseInt64Param(r *http.Request, key string, def int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// parseFloatParam parses a float query parameter with a default value.
func parseFloatParam(r *http.Request, key string, def float64) float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseTimeParam parses an RFC3339 query parameter.
func parseTimeParam(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
