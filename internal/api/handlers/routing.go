package handlers

import (
	"net/http"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/services"
)

// RoutingHandler exposes point-to-point travel estimates.
type RoutingHandler struct {
	Routing *services.RoutingService
}

func (h *RoutingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	fromLat, err := parseFloatParam(r, "fromLat")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	fromLon, err := parseFloatParam(r, "fromLon")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	toLat, err := parseFloatParam(r, "toLat")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	toLon, err := parseFloatParam(r, "toLon")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	from := domain.Coordinates{Lat: fromLat, Lon: fromLon}
	to := domain.Coordinates{Lat: toLat, Lon: toLon}

	est, err := h.Routing.Estimate(r.Context(), from, to)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "routing backend unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TravelEstimateResponse{
		FromLat:        fromLat,
		FromLon:        fromLon,
		ToLat:          toLat,
		ToLon:          toLon,
		DistanceMeters: est.DistanceMeters,
		DurationsSeconds: dto.TravelDurations{
			Car:        est.DurationsSeconds.Car,
			Motorcycle: est.DurationsSeconds.Motorcycle,
			Bicycle:    est.DurationsSeconds.Bicycle,
		},
		Provider: est.Provider,
	})
}
