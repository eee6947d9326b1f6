package handlers

import (
	"errors"
	"net/http"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/services"
)

// QuoteHandler issues locked quotes.
type QuoteHandler struct {
	Quotes  *services.QuoteService
	Metrics *obs.Metrics
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CartID == "" || req.SlotID == "" || req.LocationID == "" {
		writeError(w, r, http.StatusBadRequest, "cartId, slotId and locationId are required")
		return
	}

	q, err := h.Quotes.CreateQuote(r.Context(), req.CartID, req.SlotID, req.LocationID)
	if err != nil {
		var solo *domain.SoloMinUnitsError
		if h.Metrics != nil && errors.As(err, &solo) {
			h.Metrics.SoloRejections.Inc()
		}
		respondDomainError(w, r, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.QuotesCreated.Inc()
	}

	writeJSON(w, r, http.StatusOK, dto.QuoteResponse{
		QuoteID:     q.QuoteID,
		LockedUntil: q.LockedUntil,
		State:       string(q.State),
		Amounts: dto.QuoteAmounts{
			SubtotalCents:    q.Amounts.SubtotalCents,
			DeliveryFeeCents: q.Amounts.DeliveryFeeCents,
			DiscountCents:    q.Amounts.DiscountCents,
			TotalCents:       q.Amounts.TotalCents,
		},
	})
}
