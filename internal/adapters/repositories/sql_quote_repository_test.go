package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slot-pricing-service/internal/domain"
)

func seedQuote(t *testing.T, repo *SQLQuoteRepository, quoteID string) domain.Quote {
	t.Helper()

	now := time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC)
	q := domain.Quote{
		QuoteID:    quoteID,
		CartID:     "c_1",
		SlotID:     "sl_20260831T1400",
		LocationID: "loc_1",
		Lat:        33.45,
		Lon:        -112.07,
		Amounts: domain.QuoteAmounts{
			SubtotalCents:    600,
			DeliveryFeeCents: 412,
			DiscountCents:    38,
			TotalCents:       1012,
		},
		LockedUntil: now.Add(15 * time.Minute),
		State:       domain.QuotePending,
		CreatedAt:   now,
	}
	require.NoError(t, repo.CreateQuote(context.Background(), q))
	return q
}

func confirmArgs(q domain.Quote) (domain.Order, domain.ScheduledStop) {
	order := domain.Order{
		OrderID:    "ord_" + q.QuoteID,
		CartID:     q.CartID,
		SlotID:     q.SlotID,
		LocationID: q.LocationID,
		Amounts:    q.Amounts,
		Status:     "confirmed",
		CreatedAt:  q.CreatedAt,
	}
	start := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	stop := domain.ScheduledStop{
		StopID:  "st_" + q.QuoteID,
		OrderID: order.OrderID,
		Lat:     q.Lat,
		Lon:     q.Lon,
		StartAt: start,
		EndAt:   start.Add(30 * time.Minute),
		Active:  true,
	}
	return order, stop
}

func TestQuoteRoundTrip(t *testing.T) {
	repo := NewSQLQuoteRepository(newTestDB(t), DialectSQLite)
	q := seedQuote(t, repo, "q_rt")

	got, err := repo.GetQuote(context.Background(), "q_rt")
	require.NoError(t, err)
	require.Equal(t, q.Amounts, got.Amounts)
	require.Equal(t, domain.QuotePending, got.State)
	require.True(t, got.LockedUntil.Equal(q.LockedUntil))
	require.Equal(t, q.Lat, got.Lat)
	require.Equal(t, q.Lon, got.Lon)
}

func TestGetQuoteMissing(t *testing.T) {
	repo := NewSQLQuoteRepository(newTestDB(t), DialectSQLite)

	_, err := repo.GetQuote(context.Background(), "q_missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmQuoteOnceAndDuplicate(t *testing.T) {
	repo := NewSQLQuoteRepository(newTestDB(t), DialectSQLite)
	q := seedQuote(t, repo, "q_dup")
	order, stop := confirmArgs(q)
	ctx := context.Background()

	already, err := repo.ConfirmQuote(ctx, q.QuoteID, 12, order, stop)
	require.NoError(t, err)
	require.False(t, already)

	already, err = repo.ConfirmQuote(ctx, q.QuoteID, 12, order, stop)
	require.NoError(t, err)
	require.True(t, already, "second confirmation must be a no-op")

	usage, err := repo.UsageFor(ctx, []string{q.SlotID})
	require.NoError(t, err)
	require.Equal(t, 1, usage[q.SlotID], "usage increments exactly once")

	got, err := repo.GetQuote(ctx, q.QuoteID)
	require.NoError(t, err)
	require.Equal(t, domain.QuoteConfirmed, got.State)
	require.Equal(t, q.Amounts, got.Amounts, "amounts are immutable through confirmation")

	// The stop written by the confirmation is active and visible.
	stops := NewSQLStopRepository(repo.DB, DialectSQLite)
	active, err := stops.ListActiveStops(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, stop.StopID, active[0].StopID)
	require.Equal(t, order.OrderID, active[0].OrderID)
}

func TestConfirmQuoteUnknown(t *testing.T) {
	repo := NewSQLQuoteRepository(newTestDB(t), DialectSQLite)

	_, err := repo.ConfirmQuote(context.Background(), "q_absent", 12, domain.Order{}, domain.ScheduledStop{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmQuoteCapacityExhausted(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLQuoteRepository(db, DialectSQLite)
	q := seedQuote(t, repo, "q_full")
	order, stop := confirmArgs(q)

	_, err := db.Exec(`INSERT INTO slot_usage (slot_id, used) VALUES (?, ?);`, q.SlotID, 12)
	require.NoError(t, err)

	_, err = repo.ConfirmQuote(context.Background(), q.QuoteID, 12, order, stop)
	require.ErrorIs(t, err, domain.ErrCapacityExhausted)

	// The rejection leaves the quote pending and the counter untouched.
	got, err := repo.GetQuote(context.Background(), q.QuoteID)
	require.NoError(t, err)
	require.Equal(t, domain.QuotePending, got.State)

	usage, err := repo.UsageFor(context.Background(), []string{q.SlotID})
	require.NoError(t, err)
	require.Equal(t, 12, usage[q.SlotID])
}

func TestConfirmDistinctQuotesShareSlotCounter(t *testing.T) {
	repo := NewSQLQuoteRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	for _, id := range []string{"q_a", "q_b", "q_c"} {
		q := seedQuote(t, repo, id)
		order, stop := confirmArgs(q)
		already, err := repo.ConfirmQuote(ctx, id, 12, order, stop)
		require.NoError(t, err)
		require.False(t, already)
	}

	usage, err := repo.UsageFor(ctx, []string{"sl_20260831T1400"})
	require.NoError(t, err)
	require.Equal(t, 3, usage["sl_20260831T1400"])
}

func TestUsageForFiltersAndDedupes(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLQuoteRepository(db, DialectSQLite)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO slot_usage (slot_id, used) VALUES ('sl_a', 2), ('sl_b', 5);`)
	require.NoError(t, err)

	usage, err := repo.UsageFor(ctx, []string{"sl_a", "sl_a", "", "sl_missing", "sl_b"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"sl_a": 2, "sl_b": 5}, usage)

	usage, err = repo.UsageFor(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, usage)
}
