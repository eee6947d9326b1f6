package routing

import (
	"context"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

// HaversineProvider estimates routes as great-circle distance at a fixed
// average speed per profile. It stands in when no OSRM endpoint is
// configured; estimates are deterministic and need no network.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider { return &HaversineProvider{} }

// Average urban speeds, meters per second.
const (
	drivingSpeedMS = 8.5
	cyclingSpeedMS = 4.0
)

func (p *HaversineProvider) Route(
	ctx context.Context,
	profile ports.Profile,
	from, to domain.Coordinates,
) (ports.DistanceResult, error) {
	dist := domain.HaversineM(from.Lat, from.Lon, to.Lat, to.Lon)

	speed := drivingSpeedMS
	if profile == ports.ProfileCycling {
		speed = cyclingSpeedMS
	}

	return ports.DistanceResult{
		DistanceMeters:  dist,
		DurationSeconds: dist / speed,
	}, nil
}
