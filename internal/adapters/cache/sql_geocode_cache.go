package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
)

// SQL-backed cache mapping normalized addresses to coordinates. Keys are
// expected to be consistent (already normalized) by the caller.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: address must not be empty")
	}

	var c domain.Coordinates
	err := s.DB.QueryRowContext(ctx, db.Rebind(s.Dialect, `
	SELECT lon, lat
	FROM geocode_cache
	WHERE address = ?;
	`), address).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache get %q: %w", address, err)
	}
	return c, true, nil
}

func (s *SQLGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("geocode cache: address must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO geocode_cache (address, lon, lat) VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE SET lon = excluded.lon, lat = excluded.lat;
	`), address, c.Lon, c.Lat); err != nil {
		return fmt.Errorf("geocode cache put %q: %w", address, err)
	}
	return nil
}
