package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Port: quote persistence and the confirmation transaction.
type QuoteRepository interface {
	CreateQuote(ctx context.Context, q domain.Quote) error
	GetQuote(ctx context.Context, quoteID string) (domain.Quote, error)

	// ConfirmQuote flips the quote from pending to confirmed, increments the
	// referenced slot's usage by one, and writes the order and scheduled stop,
	// all in one transaction guarded by a compare-and-swap on the quote state.
	//
	// Returns alreadyConfirmed=true (and no side effects) for a quote that was
	// confirmed before; domain.ErrNotFound for unknown ids; and
	// domain.ErrCapacityExhausted when the increment would push usage past
	// capacityTotal.
	ConfirmQuote(
		ctx context.Context,
		quoteID string,
		capacityTotal int,
		order domain.Order,
		stop domain.ScheduledStop,
	) (alreadyConfirmed bool, err error)
}

// Port: read access to per-slot usage counters.
type UsageRepository interface {
	// Return used counts for the given slot ids; absent ids count as zero.
	UsageFor(ctx context.Context, slotIDs []string) (map[string]int, error)
}
