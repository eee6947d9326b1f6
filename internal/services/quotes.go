package services

import (
	"context"
	"fmt"
	"time"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/ports"
)

// QuoteLockDuration is how long a quote's pricing remains locked.
const QuoteLockDuration = 15 * time.Minute

// QuoteService issues time-bounded, immutable price quotes. The slot is
// always recomputed from its id under the current snapshot rather than
// trusted from a client-supplied listing, so stale or forged discount values
// cannot leak into a locked price.
type QuoteService struct {
	Products  ports.ProductRepository
	Carts     ports.CartRepository
	Locations ports.LocationRepository
	Stops     ports.StopRepository
	Usage     ports.UsageRepository
	Quotes    ports.QuoteRepository
	Settings  *SettingsService
	Now       func() time.Time
}

// CreateQuote resolves the cart, slot and location, re-runs the solo-minimum
// rule authoritatively, snapshots amounts, and persists a pending quote
// locked for QuoteLockDuration. Two concurrent creations for the same cart
// are independent quotes; only id allocation needs atomicity.
func (s *QuoteService) CreateQuote(
	ctx context.Context,
	cartID, slotID, locationID string,
) (_ domain.Quote, err error) {
	defer obs.Time(ctx, "quotes.create")(&err)

	cfg := s.Settings.Snapshot()
	now := s.Now().UTC()

	cart, err := s.Carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: cart %q: %w", cartID, err)
	}

	loc, err := s.Locations.GetLocation(ctx, locationID)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: location %q: %w", locationID, err)
	}

	startAt, err := domain.ParseSlotID(slotID)
	if err != nil || startAt.Before(now) || !cfg.Admissible(startAt) {
		// Unparseable, already started, or no longer offered under the
		// current availability windows: the slot does not resolve. A slot
		// starting exactly now is still quotable; listings requested at
		// that instant include it.
		return domain.Quote{}, fmt.Errorf("create quote: slot %q: %w", slotID, domain.ErrNotFound)
	}

	stops, err := s.Stops.ListActiveStops(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: list active stops: %w", err)
	}

	usage, err := s.Usage.UsageFor(ctx, []string{slotID})
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: read slot usage: %w", err)
	}

	slot := ComputeSlot(startAt, loc.Lat, loc.Lon, stops, usage[slotID], cfg)

	products, err := s.Products.Products(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: load products: %w", err)
	}

	units := cart.UnitTotal(products)
	if !SoloAdmissible(slot.RequiresSoloMinUnits, slot.SoloMinUnits, units) {
		return domain.Quote{}, fmt.Errorf("create quote: %w",
			&domain.SoloMinUnitsError{Required: slot.SoloMinUnits, UnitTotal: units})
	}

	subtotal := cart.SubtotalCents(products)
	q := domain.Quote{
		QuoteID:    genID("q"),
		CartID:     cart.CartID,
		SlotID:     slot.SlotID,
		LocationID: loc.LocationID,
		Lat:        loc.Lat,
		Lon:        loc.Lon,
		Amounts: domain.QuoteAmounts{
			SubtotalCents:    subtotal,
			DeliveryFeeCents: slot.FinalDeliveryFeeCents,
			DiscountCents:    slot.DiscountCents,
			TotalCents:       subtotal + slot.FinalDeliveryFeeCents,
		},
		LockedUntil: now.Add(QuoteLockDuration),
		State:       domain.QuotePending,
		CreatedAt:   now,
	}

	if err := s.Quotes.CreateQuote(ctx, q); err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: persist: %w", err)
	}
	return q, nil
}
