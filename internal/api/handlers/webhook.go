package handlers

import (
	"fmt"
	"net/http"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/services"
)

// WebhookHandler ingests payment-provider events. Only payment_succeeded has
// any effect; everything else is acknowledged and dropped so the provider
// stops retrying.
type WebhookHandler struct {
	Ledger  *services.ConfirmationLedger
	Metrics *obs.Metrics
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.WebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Event != "payment_succeeded" {
		writeJSON(w, r, http.StatusOK, dto.WebhookResponse{Status: "ignored"})
		return
	}
	if req.QuoteID == "" {
		writeError(w, r, http.StatusBadRequest, "quoteId is required")
		return
	}

	already, err := h.Ledger.Confirm(r.Context(), req.QuoteID)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.Confirmations.WithLabelValues("error").Inc()
		}
		respondDomainError(w, r, fmt.Errorf("webhook: %w", err))
		return
	}

	if h.Metrics != nil {
		outcome := "confirmed"
		if already {
			outcome = "duplicate"
		}
		h.Metrics.Confirmations.WithLabelValues(outcome).Inc()
	}
	writeJSON(w, r, http.StatusOK, dto.WebhookResponse{Status: "ok"})
}
