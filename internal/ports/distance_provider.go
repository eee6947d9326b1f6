package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Routing profile understood by distance providers.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileCycling Profile = "cycling"
)

// Distance and travel duration between two coordinates.
type DistanceResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for retrieving travel distance and duration between coordinates.
type DistanceProvider interface {
	Route(ctx context.Context, profile Profile, from, to domain.Coordinates) (DistanceResult, error)
}
