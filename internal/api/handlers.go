package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/disaster"
)

func (s *Server) handleFoundSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
		WorldID  string `json:"world_id"`
		Name     string `json:"name"`
		Q        int    `json:"q"`
		R        int    `json:"r"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PlayerID == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "player_id and name are required"})
		return
	}

	sett, err := s.eng.FoundSettlement(r.Context(), req.PlayerID, req.WorldID, req.Name, req.Q, req.R)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sett)
}

func (s *Server) handleSettlementStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.eng.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRemoveSettlement(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.RemoveSettlement(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleModifiers(w http.ResponseWriter, r *http.Request) {
	mods, err := s.eng.Modifiers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mods)
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	mods, err := s.eng.RecalculateModifiers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mods)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
		Slot int    `json:"slot"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.eng.BuildStructure(r.Context(), r.PathValue("id"), req.Type, req.Slot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	res, err := s.eng.UpgradeStructure(r.Context(), r.PathValue("id"), r.PathValue("sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDemolish(w http.ResponseWriter, r *http.Request) {
	res, err := s.eng.DemolishStructure(r.Context(), r.PathValue("id"), r.PathValue("sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCollect credits production since the last harvest, or for an
// explicit elapsed window when the request supplies one.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ElapsedHours float64 `json:"elapsed_hours"`
	}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	elapsed := time.Duration(req.ElapsedHours * float64(time.Hour))

	delta, err := s.eng.CreditProduction(r.Context(), r.PathValue("id"), elapsed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delta)
}

func (s *Server) handleScheduleDisaster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SettlementID string    `json:"settlement_id"`
		Kind         string    `json:"kind"`
		Severity     float64   `json:"severity"`
		WarningAt    time.Time `json:"warning_at"`
		ImpactAt     time.Time `json:"impact_at"`
		AftermathAt  time.Time `json:"aftermath_at"`
		ResolveAt    time.Time `json:"resolve_at"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ev := &disaster.Event{
		ID:           uuid.NewString(),
		SettlementID: req.SettlementID,
		Kind:         catalog.DisasterKind(req.Kind),
		Severity:     req.Severity,
		ScheduledAt:  time.Now().UTC(),
		WarningAt:    req.WarningAt,
		ImpactAt:     req.ImpactAt,
		AftermathAt:  req.AftermathAt,
		ResolveAt:    req.ResolveAt,
	}
	if err := s.eng.ScheduleDisaster(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleApplyDamage(w http.ResponseWriter, r *http.Request) {
	res, err := s.eng.ApplyDisasterDamage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
