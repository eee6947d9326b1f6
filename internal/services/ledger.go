package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/obs"
	"slot-pricing-service/internal/ports"
)

// ConfirmationLedger records slot-capacity consumption exactly once per
// confirmed quote. Confirmation is an explicit pending->confirmed state
// transition: the check-then-set and the capacity increment execute as one
// critical section, so duplicate or concurrent webhook deliveries can never
// double-increment a slot.
//
// A quote confirmed after its lockedUntil has lapsed is honored: payment may
// legitimately settle after the pricing lock nominally expired.
type ConfirmationLedger struct {
	Quotes   ports.QuoteRepository
	Settings *SettingsService
	Now      func() time.Time

	mu sync.Mutex // serializes capacity increments across slots
}

// Confirm flips a pending quote to confirmed, consumes one unit of the slot's
// capacity, and writes the order plus the new scheduled stop that future
// pricing will see as a neighbor. Confirming an already-confirmed quote is a
// success with no side effects.
func (l *ConfirmationLedger) Confirm(ctx context.Context, quoteID string) (alreadyConfirmed bool, err error) {
	defer obs.Time(ctx, "quotes.confirm")(&err)

	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := l.Settings.Snapshot()
	now := l.Now().UTC()

	q, err := l.Quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return false, fmt.Errorf("confirm: quote %q: %w", quoteID, err)
	}
	if q.State == domain.QuoteConfirmed {
		return true, nil
	}

	startAt, err := domain.ParseSlotID(q.SlotID)
	if err != nil {
		return false, fmt.Errorf("confirm: quote %q references bad slot: %w", quoteID, err)
	}

	order := domain.Order{
		OrderID:    genID("ord"),
		CartID:     q.CartID,
		SlotID:     q.SlotID,
		LocationID: q.LocationID,
		Amounts:    q.Amounts,
		Status:     "confirmed",
		CreatedAt:  now,
	}
	stop := domain.ScheduledStop{
		StopID:  genID("st"),
		OrderID: order.OrderID,
		Lat:     q.Lat,
		Lon:     q.Lon,
		StartAt: startAt,
		EndAt:   startAt.Add(time.Duration(cfg.SlotMinutes) * time.Minute),
		Active:  true,
	}

	already, err := l.Quotes.ConfirmQuote(ctx, quoteID, cfg.SlotCapacityTotal, order, stop)
	if err != nil {
		return false, fmt.Errorf("confirm: quote %q: %w", quoteID, err)
	}
	if !already {
		// The stop set changed; epoch-keyed listings must recompute.
		l.Settings.BumpEpoch()
	}
	return already, nil
}
