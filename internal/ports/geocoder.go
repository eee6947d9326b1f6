package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Port: address to coordinate resolution.
type Geocoder interface {
	// Resolve returns coordinates and the canonical form of the address.
	Resolve(ctx context.Context, address string) (domain.Coordinates, string, error)
}
