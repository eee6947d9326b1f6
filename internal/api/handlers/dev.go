package handlers

import (
	"fmt"
	"net/http"
	"time"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
	"slot-pricing-service/internal/services"
)

// DevHandler groups the development and demo endpoints: synthetic stop
// seeding, state reset, and the neighbor-scoring debug view. Not meant to be
// exposed outside trusted environments.
type DevHandler struct {
	Stops       ports.StopRepository
	Maintenance ports.MaintenanceStore
	Settings    *services.SettingsService
	Now         func() time.Time
}

func (h *DevHandler) MockData(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.MockDataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Density {
	case "", "low", "medium", "high":
	default:
		writeError(w, r, http.StatusBadRequest, "density must be low, medium or high")
		return
	}
	if req.Density == "" {
		req.Density = "medium"
	}

	cfg := h.Settings.Snapshot()

	// Reseeding replaces the previous synthetic set rather than piling on.
	if err := h.Stops.DeactivateAllStops(r.Context()); err != nil {
		respondDomainError(w, r, fmt.Errorf("mock data: deactivate stops: %w", err))
		return
	}

	stops := services.GenerateMockStops(req.CenterLat, req.CenterLon, req.Density, h.Now(), cfg.SlotMinutes)
	ids := make([]string, 0, len(stops))
	for _, s := range stops {
		if err := h.Stops.InsertStop(r.Context(), s); err != nil {
			respondDomainError(w, r, fmt.Errorf("mock data: insert stop: %w", err))
			return
		}
		ids = append(ids, s.StopID)
	}
	h.Settings.BumpEpoch()

	writeJSON(w, r, http.StatusOK, dto.MockDataResponse{CreatedStops: ids, Count: len(ids)})
}

func (h *DevHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	full := r.URL.Query().Get("full") == "true"
	if err := h.Maintenance.Reset(r.Context(), full); err != nil {
		respondDomainError(w, r, fmt.Errorf("reset: %w", err))
		return
	}
	h.Settings.BumpEpoch()

	mode := "orders"
	if full {
		mode = "full"
	}
	writeJSON(w, r, http.StatusOK, dto.ResetResponse{Status: "ok", Mode: mode})
}

// DebugNeighbors explains one slot's score: every in-radius stop with its
// distance and time gap, plus the resulting discount curve position.
func (h *DevHandler) DebugNeighbors(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	slotID := r.URL.Query().Get("slotId")
	startAt, err := domain.ParseSlotID(slotID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "slotId is invalid")
		return
	}
	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cfg := h.Settings.Snapshot()
	stops, err := h.Stops.ListActiveStops(r.Context())
	if err != nil {
		respondDomainError(w, r, fmt.Errorf("debug neighbors: %w", err))
		return
	}

	endAt := startAt.Add(time.Duration(cfg.SlotMinutes) * time.Minute)
	neighbors := services.FindNeighbors(stops, lat, lon, startAt, endAt, cfg.RadiusM)
	score := services.Score(neighbors, cfg)

	res := dto.DebugNeighborsResponse{
		SlotID:              slotID,
		NeighborsWithin:     make([]dto.DebugNeighbor, 0, len(neighbors)),
		Score:               score,
		ExpectedDiscountPct: services.DiscountFromScore(score, cfg),
		RadiusM:             cfg.RadiusM,
		T0Min:               cfg.T0Min,
	}
	for _, n := range neighbors {
		res.NeighborsWithin = append(res.NeighborsWithin, dto.DebugNeighbor{
			DistanceM: n.DistanceM,
			GapMin:    n.GapMin,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
