package handlers

import (
	"fmt"
	"net/http"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/ports"
)

// PaymentsHandler fakes a payment-intent provider. Intents are derived from
// the quote id, never stored, and "settle" only when the webhook endpoint is
// poked; real provider integration replaces this wholesale.
type PaymentsHandler struct {
	Quotes ports.QuoteRepository
}

func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PaymentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.QuoteID == "" {
		writeError(w, r, http.StatusBadRequest, "quoteId is required")
		return
	}

	if _, err := h.Quotes.GetQuote(r.Context(), req.QuoteID); err != nil {
		respondDomainError(w, r, fmt.Errorf("quote %q: %w", req.QuoteID, err))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PaymentCreateResponse{
		PaymentIntentID: "pi_" + req.QuoteID,
		ClientSecret:    "pi_secret_" + req.QuoteID,
		Status:          "requires_confirmation",
	})
}
