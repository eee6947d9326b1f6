package routing

import (
	"context"
	"fmt"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

type MockLeg struct {
	Profile  ports.Profile
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

// MockProvider serves canned results for tests.
type MockProvider struct {
	m map[string]ports.DistanceResult
}

func mockKey(profile ports.Profile, from, to domain.Coordinates) string {
	return fmt.Sprintf("%s|%.5f,%.5f|%.5f,%.5f", profile, from.Lat, from.Lon, to.Lat, to.Lon)
}

func NewMockProvider(legs []MockLeg) *MockProvider {
	m := make(map[string]ports.DistanceResult, len(legs))
	for _, l := range legs {
		m[mockKey(l.Profile, l.From, l.To)] = ports.DistanceResult{
			DistanceMeters:  l.Meters,
			DurationSeconds: l.Seconds,
		}
	}
	return &MockProvider{m: m}
}

func (p *MockProvider) Route(
	ctx context.Context,
	profile ports.Profile,
	from, to domain.Coordinates,
) (ports.DistanceResult, error) {
	r, ok := p.m[mockKey(profile, from, to)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing %s leg %v -> %v", profile, from, to)
	}
	return r, nil
}
