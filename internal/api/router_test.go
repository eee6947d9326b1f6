package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"slot-pricing-service/internal/adapters/geocode"
	"slot-pricing-service/internal/adapters/repositories"
	"slot-pricing-service/internal/adapters/routing"
	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/services"
)

// fixedNow keeps every slot computation in the Monday lunch window.
var fixedNow = time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repositories.InitSchema(db))

	_, err = db.Exec(`
	INSERT INTO products (product_id, name, price_cents, unit_factor, active) VALUES
		('p_1', 'Classic Cookie', 300, 1, TRUE),
		('p_3', 'Party Box', 1600, 6, TRUE),
		('p_off', 'Retired', 100, 1, FALSE);
	`)
	require.NoError(t, err)

	catalog := repositories.NewSQLCatalogRepository(db, repositories.DialectSQLite)
	stops := repositories.NewSQLStopRepository(db, repositories.DialectSQLite)
	quotes := repositories.NewSQLQuoteRepository(db, repositories.DialectSQLite)
	settingsStore := repositories.NewSQLSettingsStore(db, repositories.DialectSQLite)

	settings := services.NewSettingsService(settingsStore)
	require.NoError(t, settings.Load(context.Background(), domain.DefaultSettings()))

	now := func() time.Time { return fixedNow }
	handler := NewRouter(Deps{
		Products:    catalog,
		Carts:       catalog,
		Locations:   catalog,
		Stops:       stops,
		Quotes:      quotes,
		Maintenance: settingsStore,
		Geocoder:    geocode.NewStubGeocoder(33.4484, -112.0740, nil),
		Settings:    settings,
		Slots: &services.SlotService{
			Stops:    stops,
			Usage:    quotes,
			Settings: settings,
			Now:      now,
		},
		Quoter: &services.QuoteService{
			Products:  catalog,
			Carts:     catalog,
			Locations: catalog,
			Stops:     stops,
			Usage:     quotes,
			Quotes:    quotes,
			Settings:  settings,
			Now:       now,
		},
		Ledger: &services.ConfirmationLedger{
			Quotes:   quotes,
			Settings: settings,
			Now:      now,
		},
		Routing: &services.RoutingService{
			Provider: routing.NewHaversineProvider(),
			Name:     "haversine",
		},
		Now: now,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, db
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestQuoteLifecycle(t *testing.T) {
	srv, db := newTestServer(t)

	var cart dto.CartSummaryResponse
	status := postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
		Items: []dto.CartItemIn{{ProductID: "p_1", Qty: 2}},
	}, &cart)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 600, cart.SubtotalCents)
	require.NotEmpty(t, cart.CartID)

	var loc dto.LocationResponse
	status = postJSON(t, srv.URL+"/locations/resolve", dto.ResolveLocationRequest{
		Address: "100 N Central Ave, Phoenix, AZ",
	}, &loc)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, loc.LocationID)

	// Seed a batching neighbor right where the address resolved.
	start := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	_, err := db.Exec(`
	INSERT INTO scheduled_stops (stop_id, lat, lon, start_at, end_at, active)
	VALUES ('st_seed', ?, ?, ?, ?, TRUE);
	`, loc.Lat, loc.Lon, start.Format(time.RFC3339Nano), start.Add(30*time.Minute).Format(time.RFC3339Nano))
	require.NoError(t, err)

	var slots dto.SlotsResponse
	status = getJSON(t, fmt.Sprintf("%s/delivery/slots?cartId=%s&lat=%f&lon=%f",
		srv.URL, cart.CartID, loc.Lat, loc.Lon), &slots)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, slots.Slots)

	require.Equal(t, "sl_20260831T1300", slots.Slots[0].SlotID, "listing starts at the 13:00 boundary")

	// Quote a discounted slot that has not started yet.
	discounted := ""
	for _, s := range slots.Slots {
		if s.DiscountCents > 0 && s.StartAt.After(fixedNow) {
			discounted = s.SlotID
			break
		}
	}
	require.NotEmpty(t, discounted, "the seeded neighbor must discount at least one future slot")

	var quote dto.QuoteResponse
	status = postJSON(t, srv.URL+"/checkout/quote", dto.QuoteRequest{
		CartID:     cart.CartID,
		SlotID:     discounted,
		LocationID: loc.LocationID,
	}, &quote)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "pending", quote.State)
	require.Equal(t, 600, quote.Amounts.SubtotalCents)
	require.Greater(t, quote.Amounts.DiscountCents, 0)
	require.Equal(t, quote.Amounts.SubtotalCents+quote.Amounts.DeliveryFeeCents, quote.Amounts.TotalCents)
	require.True(t, quote.LockedUntil.Equal(fixedNow.Add(15*time.Minute)))

	var intent dto.PaymentCreateResponse
	status = postJSON(t, srv.URL+"/payments/create", dto.PaymentCreateRequest{QuoteID: quote.QuoteID}, &intent)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "pi_"+quote.QuoteID, intent.PaymentIntentID)
	require.Equal(t, "pi_secret_"+quote.QuoteID, intent.ClientSecret)

	var hook dto.WebhookResponse
	status = postJSON(t, srv.URL+"/webhooks/payment", dto.WebhookRequest{
		Event:   "payment_succeeded",
		QuoteID: quote.QuoteID,
	}, &hook)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", hook.Status)

	// Duplicate delivery: still ok, usage unchanged.
	status = postJSON(t, srv.URL+"/webhooks/payment", dto.WebhookRequest{
		Event:   "payment_succeeded",
		QuoteID: quote.QuoteID,
	}, &hook)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", hook.Status)

	var used int
	require.NoError(t, db.QueryRow(
		`SELECT used FROM slot_usage WHERE slot_id = ?;`, discounted,
	).Scan(&used))
	require.Equal(t, 1, used)

	// The confirmed order's stop now batches future listings.
	status = getJSON(t, fmt.Sprintf("%s/delivery/slots?cartId=%s&lat=%f&lon=%f",
		srv.URL, cart.CartID, loc.Lat, loc.Lon), &slots)
	require.Equal(t, http.StatusOK, status)
	after := -1
	for _, s := range slots.Slots {
		if s.SlotID == discounted {
			after = s.Capacity.Used
		}
	}
	require.Equal(t, 1, after, "confirmed slot shows its consumed capacity")
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	var hook dto.WebhookResponse
	status := postJSON(t, srv.URL+"/webhooks/payment", dto.WebhookRequest{
		Event:   "payment_failed",
		QuoteID: "q_whatever",
	}, &hook)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ignored", hook.Status)
}

func TestWebhookUnknownQuote(t *testing.T) {
	srv, _ := newTestServer(t)

	status := postJSON(t, srv.URL+"/webhooks/payment", dto.WebhookRequest{
		Event:   "payment_succeeded",
		QuoteID: "q_missing",
	}, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestQuoteSoloRejection(t *testing.T) {
	srv, _ := newTestServer(t)

	var cart dto.CartSummaryResponse
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
		Items: []dto.CartItemIn{{ProductID: "p_1", Qty: 2}},
	}, &cart))

	var loc dto.LocationResponse
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/locations/resolve", dto.ResolveLocationRequest{
		Address: "400 E Van Buren St",
	}, &loc))

	// No stops seeded: every slot is solo, and 2 units is under the minimum.
	var body struct {
		Error        string `json:"error"`
		Message      string `json:"message"`
		SoloMinUnits int    `json:"soloMinUnits"`
	}
	status := postJSON(t, srv.URL+"/checkout/quote", dto.QuoteRequest{
		CartID:     cart.CartID,
		SlotID:     "sl_20260831T1400",
		LocationID: loc.LocationID,
	}, &body)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "SOLO_MIN_UNITS_REQUIRED", body.Error)
	require.Equal(t, 6, body.SoloMinUnits)

	// A party box (6 units) clears the rule at the base fee.
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
		Items: []dto.CartItemIn{{ProductID: "p_3", Qty: 1}},
	}, &cart))

	var quote dto.QuoteResponse
	status = postJSON(t, srv.URL+"/checkout/quote", dto.QuoteRequest{
		CartID:     cart.CartID,
		SlotID:     "sl_20260831T1400",
		LocationID: loc.LocationID,
	}, &quote)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, quote.Amounts.DiscountCents)
	require.Equal(t, 450, quote.Amounts.DeliveryFeeCents)
}

func TestCartValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	require.Equal(t, http.StatusBadRequest,
		postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{}, nil))

	require.Equal(t, http.StatusNotFound,
		postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
			Items: []dto.CartItemIn{{ProductID: "p_unknown", Qty: 1}},
		}, nil))

	require.Equal(t, http.StatusNotFound,
		postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
			Items: []dto.CartItemIn{{ProductID: "p_off", Qty: 1}},
		}, nil), "inactive products are not orderable")

	require.Equal(t, http.StatusBadRequest,
		postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
			Items: []dto.CartItemIn{{ProductID: "p_1", Qty: 0}},
		}, nil))
}

func TestSlotsRequireKnownCart(t *testing.T) {
	srv, _ := newTestServer(t)

	status := getJSON(t, srv.URL+"/delivery/slots?cartId=c_missing&lat=33.45&lon=-112.07", nil)
	require.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/delivery/slots?lat=33.45&lon=-112.07", nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestSettingsUpdateChangesPricing(t *testing.T) {
	srv, _ := newTestServer(t)

	var cfg domain.Settings
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/settings", &cfg))
	require.Equal(t, 450, cfg.BaseDeliveryFeeCents)

	cfg.BaseDeliveryFeeCents = 600
	cfg.MinDeliveryFeeCents = 400

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/settings", bytes.NewReader(raw))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart dto.CartSummaryResponse
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/cart", dto.CreateCartRequest{
		Items: []dto.CartItemIn{{ProductID: "p_1", Qty: 1}},
	}, &cart))

	var slots dto.SlotsResponse
	status := getJSON(t, fmt.Sprintf("%s/delivery/slots?cartId=%s&lat=33.45&lon=-112.07", srv.URL, cart.CartID), &slots)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, slots.Slots)
	require.Equal(t, 600, slots.Slots[0].BaseDeliveryFeeCents, "listings price under the updated settings")
	require.Equal(t, 600, slots.Params.BaseDeliveryFeeCents)

	// An invalid document is rejected wholesale.
	cfg.K = -1
	raw, err = json.Marshal(cfg)
	require.NoError(t, err)
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/settings", bytes.NewReader(raw))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDevEndpoints(t *testing.T) {
	srv, db := newTestServer(t)

	var seeded dto.MockDataResponse
	status := postJSON(t, srv.URL+"/dev/mock-data", dto.MockDataRequest{
		CenterLat: 33.4484,
		CenterLon: -112.0740,
		Density:   "low",
	}, &seeded)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 10, seeded.Count)
	require.Len(t, seeded.CreatedStops, 10)

	// Reseeding replaces, not appends.
	status = postJSON(t, srv.URL+"/dev/mock-data", dto.MockDataRequest{
		CenterLat: 33.4484,
		CenterLon: -112.0740,
		Density:   "low",
	}, &seeded)
	require.Equal(t, http.StatusOK, status)

	var active int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM scheduled_stops WHERE active;`).Scan(&active))
	require.Equal(t, 10, active)

	var neighbors dto.DebugNeighborsResponse
	status = getJSON(t, srv.URL+"/dev/debug-neighbors?slotId=sl_20260831T1400&lat=33.4484&lon=-112.0740", &neighbors)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, neighbors.NeighborsWithin)
	require.Greater(t, neighbors.Score, 0.0)
	require.Greater(t, neighbors.ExpectedDiscountPct, 0.0)

	var reset dto.ResetResponse
	status = postJSON(t, srv.URL+"/dev/reset?full=true", nil, &reset)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "full", reset.Mode)

	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM scheduled_stops WHERE active;`).Scan(&active))
	require.Zero(t, active)
}

func TestRoutingEstimate(t *testing.T) {
	srv, _ := newTestServer(t)

	var est dto.TravelEstimateResponse
	status := getJSON(t, srv.URL+
		"/routing/estimate?fromLat=33.45&fromLon=-112.07&toLat=33.46&toLon=-112.08", &est)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "haversine", est.Provider)
	require.Greater(t, est.DistanceMeters, 0.0)
	require.Greater(t, est.DurationsSeconds.Bicycle, est.DurationsSeconds.Car)
	require.Less(t, est.DurationsSeconds.Motorcycle, est.DurationsSeconds.Car)

	status = getJSON(t, srv.URL+"/routing/estimate?fromLat=33.45", nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &body))
	require.Equal(t, "ok", body["status"])
}
