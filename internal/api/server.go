// Package api serves the settlement engine over HTTP. Reads return the
// store's current state; mutations go through the engine so they pick up
// per-settlement locking and synchronous modifier re-aggregation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkarlsen/bastion/internal/config"
	"github.com/mkarlsen/bastion/internal/engine"
	"github.com/mkarlsen/bastion/internal/store"
)

// Server exposes the engine's operations over HTTP.
type Server struct {
	eng *engine.Engine
	cfg *config.Config

	httpSrv *http.Server
}

// NewServer builds the server and its route table.
func NewServer(cfg *config.Config, eng *engine.Engine) *Server {
	s := &Server{eng: eng, cfg: cfg}

	mux := http.NewServeMux()

	// Settlement lifecycle and reads.
	mux.HandleFunc("POST /api/v1/settlements", s.handleFoundSettlement)
	mux.HandleFunc("GET /api/v1/settlements/{id}", s.handleSettlementStatus)
	mux.HandleFunc("DELETE /api/v1/settlements/{id}", s.handleRemoveSettlement)

	// Modifier aggregation.
	mux.HandleFunc("GET /api/v1/settlements/{id}/modifiers", s.handleModifiers)
	mux.HandleFunc("POST /api/v1/settlements/{id}/modifiers/recalculate", s.handleRecalculate)

	// Structures.
	mux.HandleFunc("POST /api/v1/settlements/{id}/structures", s.handleBuild)
	mux.HandleFunc("POST /api/v1/settlements/{id}/structures/{sid}/upgrade", s.handleUpgrade)
	mux.HandleFunc("DELETE /api/v1/settlements/{id}/structures/{sid}", s.handleDemolish)

	// Production.
	mux.HandleFunc("POST /api/v1/settlements/{id}/production/collect", s.handleCollect)

	// Disasters.
	mux.HandleFunc("POST /api/v1/disasters", s.handleScheduleDisaster)
	mux.HandleFunc("POST /api/v1/disasters/{id}/damage", s.handleApplyDamage)

	limiter := newIPLimiter(cfg.RateLimit, cfg.RateBurst)
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           limiter.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until the context is canceled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Insufficient resources
// is a structured rejection carrying the per-resource deficit, not a bare
// message.
func writeError(w http.ResponseWriter, err error) {
	var short *engine.InsufficientResourceError
	switch {
	case errors.As(err, &short):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "insufficient resources",
			"missing": short.Missing,
		})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidState):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "operation timed out"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}
