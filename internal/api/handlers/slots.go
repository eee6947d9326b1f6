package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/ports"
	"slot-pricing-service/internal/services"
)

// SlotsHandler lists priced delivery windows for a cart and location.
type SlotsHandler struct {
	Carts   ports.CartRepository
	Slots   *services.SlotService
	Metrics *obs.Metrics
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// parseISOParam accepts ISO-8601 with a Z suffix or numeric offset; naive
// timestamps are taken as UTC.
func parseISOParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%s must be an ISO-8601 timestamp", name)
}

func (h *SlotsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	cartID := r.URL.Query().Get("cartId")
	if cartID == "" {
		writeError(w, r, http.StatusBadRequest, "cartId is required")
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

	from, err := parseISOParam(r, "fromISO")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseISOParam(r, "toISO")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// The cart does not influence slot pricing, but listing against a
	// dead cart is a client bug worth surfacing early.
	if _, err := h.Carts.GetCart(r.Context(), cartID); err != nil {
		respondDomainError(w, r, fmt.Errorf("cart %q: %w", cartID, err))
		return
	}

	slots, params, err := h.Slots.ListSlots(r.Context(), lat, lon, from, to)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.SlotsComputed.Inc()
	}

	res := dto.SlotsResponse{
		ComputedAt: h.Slots.Now().UTC(),
		Params:     params,
		Slots:      make([]dto.SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		res.Slots = append(res.Slots, dto.FromSlot(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
