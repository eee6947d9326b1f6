package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slot-pricing-service/internal/api/handlers"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/ports"
	"slot-pricing-service/internal/services"
)

// Deps collects everything the HTTP surface needs. The composition root
// (cmd/server) builds one of these; handlers stay unaware of concrete
// adapters.
type Deps struct {
	Products    ports.ProductRepository
	Carts       ports.CartRepository
	Locations   ports.LocationRepository
	Stops       ports.StopRepository
	Quotes      ports.QuoteRepository
	Maintenance ports.MaintenanceStore
	Geocoder    ports.Geocoder

	Settings *services.SettingsService
	Slots    *services.SlotService
	Quoter   *services.QuoteService
	Ledger   *services.ConfirmationLedger
	Routing  *services.RoutingService

	Metrics *obs.Metrics
	Now     func() time.Time
}

// NewRouter wires the HTTP handlers and returns the root handler.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	mux := http.NewServeMux()

	cart := &handlers.CartHandler{Products: d.Products, Carts: d.Carts}
	location := &handlers.LocationHandler{Geocoder: d.Geocoder, Locations: d.Locations}
	slots := &handlers.SlotsHandler{Carts: d.Carts, Slots: d.Slots, Metrics: d.Metrics}
	quote := &handlers.QuoteHandler{Quotes: d.Quoter, Metrics: d.Metrics}
	payments := &handlers.PaymentsHandler{Quotes: d.Quotes}
	webhook := &handlers.WebhookHandler{Ledger: d.Ledger, Metrics: d.Metrics}
	settings := &handlers.SettingsHandler{Settings: d.Settings}
	routing := &handlers.RoutingHandler{Routing: d.Routing}
	dev := &handlers.DevHandler{
		Stops:       d.Stops,
		Maintenance: d.Maintenance,
		Settings:    d.Settings,
		Now:         d.Now,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/cart", cart.Create)
	mux.HandleFunc("/locations/resolve", location.Resolve)
	mux.HandleFunc("/delivery/slots", slots.List)
	mux.HandleFunc("/checkout/quote", quote.Create)
	mux.HandleFunc("/payments/create", payments.CreateIntent)
	mux.HandleFunc("/webhooks/payment", webhook.Receive)
	mux.HandleFunc("/settings", settings.Handle)
	mux.HandleFunc("/routing/estimate", routing.Estimate)

	mux.HandleFunc("/dev/mock-data", dev.MockData)
	mux.HandleFunc("/dev/reset", dev.Reset)
	mux.HandleFunc("/dev/debug-neighbors", dev.DebugNeighbors)

	return requestMiddleware(mux, d.Metrics)
}
