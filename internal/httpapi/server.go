// Package httpapi exposes the REST surface: quote ingestion and retrieval,
// synchronous backtest runs, and stored result listings.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"quantbt/internal/backtest"
	"quantbt/internal/config"
	"quantbt/internal/ingest"
	"quantbt/internal/store"
	"quantbt/internal/strategy"
)

// Version reported by GET /api/version.
const Version = "0.3.0"

// Server serves the quantbt HTTP API.
type Server struct {
	store    *store.SQLiteStore
	worker   *store.Worker
	registry *strategy.Registry
	defaults config.Backtest
	log      *slog.Logger
}

// NewServer creates an API server. The worker is used for write-behind
// persistence; reads go straight to the store.
func NewServer(st *store.SQLiteStore, worker *store.Worker, registry *strategy.Registry, defaults config.Backtest, log *slog.Logger) *Server {
	return &Server{
		store:    st,
		worker:   worker,
		registry: registry,
		defaults: defaults,
		log:      log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("POST /api/ingest/csv", s.handleIngestCSV)
	mux.HandleFunc("GET /api/quotes/{symbol}", s.handleQuotes)
	mux.HandleFunc("POST /api/backtest", s.handleBacktest)
	mux.HandleFunc("GET /api/backtests", s.handleBacktests)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, VersionResponse{Version: Version})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StrategiesResponse{Strategies: s.registry.List()})
}

// handleIngestCSV accepts a CSV body (the same format the CLI reads) and
// persists the parsed bars for the symbol named in the query string.
func (s *Server) handleIngestCSV(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol query parameter required")
		return
	}

	series, err := ingest.ReadCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing CSV: %v", err))
		return
	}
	if series.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no bars in CSV body")
		return
	}

	bars := series.Bars()
	s.worker.Enqueue(func(ctx context.Context, st *store.SQLiteStore) error {
		return st.SaveQuotes(ctx, symbol, bars)
	})

	s.log.Info("csv ingest accepted", "symbol", symbol, "bars", len(bars))
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, IngestResponse{Symbol: symbol, Bars: len(bars)})
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))

	series, err := s.store.LoadQuotes(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading quotes")
		return
	}
	if series.IsEmpty() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no quotes for %s", symbol))
		return
	}

	writeJSON(w, QuotesResponse{Symbol: symbol, Bars: series.Bars()})
}

// handleBacktest loads the symbol's stored quotes, runs the requested
// strategy over them, and persists the result through the worker. The
// response carries the result record including its generated ID.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}
	req.Symbol = strings.ToUpper(req.Symbol)
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	if req.Strategy == "" {
		req.Strategy = "buy-hold"
	}

	strat, ok := s.registry.New(req.Strategy)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", req.Strategy))
		return
	}

	series, err := s.store.LoadQuotes(r.Context(), req.Symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading quotes")
		return
	}
	if series.IsEmpty() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no quotes for %s", req.Symbol))
		return
	}

	equity := req.InitialEquity
	if equity <= 0 {
		equity = s.defaults.InitialEquity
	}
	exec := backtest.ExecParams{
		CommissionFixed: orDefault(req.CommissionFixed, s.defaults.CommissionFixed),
		CommissionBps:   orDefault(req.CommissionBps, s.defaults.CommissionBps),
		SlippageBps:     orDefault(req.SlippageBps, s.defaults.SlippageBps),
	}

	result := backtest.NewEngine(equity, exec).Run(series, strat)

	rec := store.ResultRecord{
		ID:             uuid.NewString(),
		Symbol:         req.Symbol,
		Strategy:       req.Strategy,
		InitialEquity:  result.InitialEquity,
		FinalEquity:    result.FinalEquity,
		TradesExecuted: result.TradesExecuted,
		CreatedAt:      time.Now().UTC(),
	}
	s.enqueueSaveResult(rec)

	s.log.Info("backtest complete",
		"symbol", req.Symbol,
		"strategy", req.Strategy,
		"bars", series.Len(),
		"final_equity", result.FinalEquity,
		"trades", result.TradesExecuted)

	writeJSON(w, BacktestResponse{Result: rec, Bars: series.Len()})
}

func (s *Server) handleBacktests(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.store.ListResults(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing results")
		return
	}
	if results == nil {
		results = []store.ResultRecord{}
	}

	writeJSON(w, BacktestsResponse{Results: results})
}

func (s *Server) enqueueSaveResult(rec store.ResultRecord) {
	s.worker.Enqueue(func(ctx context.Context, st *store.SQLiteStore) error {
		return st.SaveResult(ctx, rec)
	})
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
