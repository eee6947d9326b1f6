package services

import (
	"context"
	"fmt"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

type TravelDurations struct {
	Car        float64
	Motorcycle float64
	Bicycle    float64
}

// TravelEstimate is the per-mode travel summary between two points.
type TravelEstimate struct {
	DistanceMeters   float64
	DurationsSeconds TravelDurations
	Provider         string
}

// RoutingService derives per-mode estimates from a distance provider.
// Motorcycle is approximated as a faster car; bicycle uses the cycling
// profile when the provider supports it and a slow-car approximation when it
// does not.
type RoutingService struct {
	Provider ports.DistanceProvider
	Name     string
}

func (s *RoutingService) Estimate(ctx context.Context, from, to domain.Coordinates) (TravelEstimate, error) {
	car, err := s.Provider.Route(ctx, ports.ProfileDriving, from, to)
	if err != nil {
		return TravelEstimate{}, fmt.Errorf("travel estimate: driving route: %w", err)
	}

	bikeDur := car.DurationSeconds * 2.5
	if bike, err := s.Provider.Route(ctx, ports.ProfileCycling, from, to); err == nil {
		bikeDur = bike.DurationSeconds
	}

	return TravelEstimate{
		DistanceMeters: car.DistanceMeters,
		DurationsSeconds: TravelDurations{
			Car:        car.DurationSeconds,
			Motorcycle: car.DurationSeconds * 0.8,
			Bicycle:    bikeDur,
		},
		Provider: s.Name,
	}, nil
}
