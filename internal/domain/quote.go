package domain

import "time"

type QuoteState string

const (
	QuotePending   QuoteState = "pending"
	QuoteConfirmed QuoteState = "confirmed"
)

// QuoteAmounts is the immutable monetary snapshot taken when a quote is locked.
type QuoteAmounts struct {
	SubtotalCents    int
	DeliveryFeeCents int
	DiscountCents    int
	TotalCents       int
}

// Quote is a short-lived, immutable price commitment for a
// (cart, slot, location) triple. Amounts never change after creation;
// re-pricing requires a new quote. Expiry is a lazy timestamp comparison
// against LockedUntil, not an active timer.
type Quote struct {
	QuoteID     string
	CartID      string
	SlotID      string
	LocationID  string
	Lat         float64
	Lon         float64
	Amounts     QuoteAmounts
	LockedUntil time.Time
	State       QuoteState
	CreatedAt   time.Time
}

// Expired reports whether the pricing lock has lapsed at the given instant.
// An expired quote can no longer be presented as current pricing; whether it
// may still be confirmed is the ledger's call.
func (q Quote) Expired(now time.Time) bool {
	return now.After(q.LockedUntil)
}

// Order is the permanent record written when a quote is confirmed.
type Order struct {
	OrderID    string
	CartID     string
	SlotID     string
	LocationID string
	Amounts    QuoteAmounts
	Status     string
	CreatedAt  time.Time
}
