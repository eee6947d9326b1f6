package services

import (
	"math"
	"time"

	"slot-pricing-service/internal/domain"
)

// GenerateMockStops builds synthetic scheduled stops around a center point so
// discounts and batching can be exercised without real orders. Density maps
// to a stop count (low=10, medium=25, high=60); placement and timing follow a
// fixed jitter pattern (about 2km spread, about 12h of lead time), so two
// seeds with the same inputs produce the same geometry.
func GenerateMockStops(centerLat, centerLon float64, density string, now time.Time, slotMinutes int) []domain.ScheduledStop {
	target := 25
	switch density {
	case "low":
		target = 10
	case "high":
		target = 60
	}

	now = now.UTC().Truncate(time.Minute)
	window := time.Duration(slotMinutes) * time.Minute

	stops := make([]domain.ScheduledStop, 0, target)
	for i := 0; i < target; i++ {
		minutesAhead := (i * 20) % (12 * 60)
		when := now.Add(time.Duration(minutesAhead) * time.Minute)

		dLat := 0.018 * float64(i%5-2) / 2.0
		dLon := 0.036 * float64(i%7-3) / 2.0 * math.Cos(centerLat*math.Pi/180.0)

		stops = append(stops, domain.ScheduledStop{
			StopID:  NewStopID(),
			Lat:     centerLat + dLat,
			Lon:     centerLon + dLon,
			StartAt: when,
			EndAt:   when.Add(window),
			Active:  true,
		})
	}
	return stops
}
