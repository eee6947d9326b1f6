package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
	"slot-pricing-service/internal/ports"
)

// SQL-backed cache for routed distance results, keyed by rounded coordinate
// pair and routing profile so nearby lookups coalesce.
type SQLDistanceCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDistanceCache(conn *sql.DB, dialect db.Dialect) *SQLDistanceCache {
	return &SQLDistanceCache{DB: conn, Dialect: dialect}
}

// coordKey rounds to ~11m of precision; finer keys would defeat the cache.
func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

func (s *SQLDistanceCache) Get(
	ctx context.Context,
	profile ports.Profile,
	from, to domain.Coordinates,
) (ports.DistanceResult, bool, error) {
	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("distance cache: db is nil")
	}

	var r ports.DistanceResult
	err := s.DB.QueryRowContext(ctx, db.Rebind(s.Dialect, `
	SELECT distance_meters, duration_seconds
	FROM distance_cache
	WHERE origin = ? AND destination = ? AND profile = ?;
	`), coordKey(from), coordKey(to), string(profile)).Scan(&r.DistanceMeters, &r.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("distance cache get: %w", err)
	}
	return r, true, nil
}

func (s *SQLDistanceCache) Put(
	ctx context.Context,
	profile ports.Profile,
	from, to domain.Coordinates,
	r ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO distance_cache (origin, destination, profile, distance_meters, duration_seconds)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (origin, destination, profile) DO UPDATE SET
		distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds;
	`), coordKey(from), coordKey(to), string(profile), r.DistanceMeters, r.DurationSeconds); err != nil {
		return fmt.Errorf("distance cache put: %w", err)
	}
	return nil
}
