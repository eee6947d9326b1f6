package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Port: read access to the product catalog.
type ProductRepository interface {
	// Return all products keyed by id, including inactive ones; callers
	// gate on the Active flag.
	Products(ctx context.Context) (map[string]domain.Product, error)
}

// Port: cart persistence.
type CartRepository interface {
	CreateCart(ctx context.Context, cart domain.Cart) error
	// GetCart returns domain.ErrNotFound (wrapped) for unknown ids.
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
}

// Port: resolved location persistence.
type LocationRepository interface {
	CreateLocation(ctx context.Context, loc domain.Location) error
	GetLocation(ctx context.Context, locationID string) (domain.Location, error)
}
