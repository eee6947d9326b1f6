package handlers

import (
	"net/http"

	"slot-pricing-service/internal/services"
)

// SettingsHandler reads and replaces the scoring configuration. PUT takes a
// full document, not a patch; the response echoes the published value.
type SettingsHandler struct {
	Settings *services.SettingsService
}

func (h *SettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, h.Settings.Snapshot())
	case http.MethodPut:
		// Absent fields inherit the current value, so partial documents
		// cannot silently zero a knob.
		cfg := h.Settings.Snapshot()
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.Settings.Update(r.Context(), cfg); err != nil {
			respondDomainError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, h.Settings.Snapshot())
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}
