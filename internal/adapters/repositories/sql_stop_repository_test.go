package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slot-pricing-service/internal/domain"
)

func TestStopRepositoryOrderingAndActiveFilter(t *testing.T) {
	repo := NewSQLStopRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	mk := func(id string, offset time.Duration, active bool) domain.ScheduledStop {
		return domain.ScheduledStop{
			StopID:  id,
			Lat:     33.45,
			Lon:     -112.07,
			StartAt: base.Add(offset),
			EndAt:   base.Add(offset + 30*time.Minute),
			Active:  active,
		}
	}

	require.NoError(t, repo.InsertStop(ctx, mk("st_late", 2*time.Hour, true)))
	require.NoError(t, repo.InsertStop(ctx, mk("st_early", 0, true)))
	require.NoError(t, repo.InsertStop(ctx, mk("st_dead", time.Hour, false)))

	stops, err := repo.ListActiveStops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 2)
	require.Equal(t, "st_early", stops[0].StopID, "chronological order")
	require.Equal(t, "st_late", stops[1].StopID)
	require.True(t, stops[0].StartAt.Equal(base))
	require.Empty(t, stops[0].OrderID, "synthetic stop has no order")
}

func TestDeactivateAllStops(t *testing.T) {
	repo := NewSQLStopRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	start := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	for _, id := range []string{"st_1", "st_2"} {
		require.NoError(t, repo.InsertStop(ctx, domain.ScheduledStop{
			StopID:  id,
			Lat:     33.45,
			Lon:     -112.07,
			StartAt: start,
			EndAt:   start.Add(30 * time.Minute),
			Active:  true,
		}))
	}

	require.NoError(t, repo.DeactivateAllStops(ctx))

	stops, err := repo.ListActiveStops(ctx)
	require.NoError(t, err)
	require.Empty(t, stops)
}
