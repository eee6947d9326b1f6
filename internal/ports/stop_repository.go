package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Port: a boundary for reading and appending scheduled delivery stops.
type StopRepository interface {
	// Return every active stop. Spatial and temporal filtering is the
	// neighbor finder's job; time decay is not a hard cutoff.
	ListActiveStops(ctx context.Context) ([]domain.ScheduledStop, error)

	// Append a stop. Stops are immutable once inserted.
	InsertStop(ctx context.Context, stop domain.ScheduledStop) error

	// Mark every stop inactive. Used by reseeding; stops are never deleted.
	DeactivateAllStops(ctx context.Context) error
}
