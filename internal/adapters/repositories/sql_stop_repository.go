package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
)

// SQL-backed implementation of the StopRepository port.
type SQLStopRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLStopRepository(conn *sql.DB, dialect db.Dialect) *SQLStopRepository {
	return &SQLStopRepository{DB: conn, Dialect: dialect}
}

// Return all active scheduled stops.
func (s *SQLStopRepository) ListActiveStops(ctx context.Context) ([]domain.ScheduledStop, error) {
	if s.DB == nil {
		return nil, errors.New("stop repository: DB is nil")
	}

	query := `
	SELECT stop_id, COALESCE(order_id, ''), lat, lon, start_at, end_at
	FROM scheduled_stops
	WHERE active
	ORDER BY start_at, stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active stops: query scheduled_stops: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.ScheduledStop, 0, 64)
	for rows.Next() {
		var st domain.ScheduledStop
		var startRaw, endRaw string
		if err := rows.Scan(&st.StopID, &st.OrderID, &st.Lat, &st.Lon, &startRaw, &endRaw); err != nil {
			return nil, fmt.Errorf("list active stops: scan row: %w", err)
		}
		if st.StartAt, err = parseTime(startRaw); err != nil {
			return nil, fmt.Errorf("list active stops: stop %q: %w", st.StopID, err)
		}
		if st.EndAt, err = parseTime(endRaw); err != nil {
			return nil, fmt.Errorf("list active stops: stop %q: %w", st.StopID, err)
		}
		st.Active = true
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active stops: row iteration: %w", err)
	}

	return stops, nil
}

func (s *SQLStopRepository) InsertStop(ctx context.Context, stop domain.ScheduledStop) error {
	if s.DB == nil {
		return errors.New("stop repository: DB is nil")
	}

	var orderID any
	if stop.OrderID != "" {
		orderID = stop.OrderID
	}

	query := db.Rebind(s.Dialect, `
	INSERT INTO scheduled_stops (stop_id, order_id, lat, lon, start_at, end_at, active)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	_, err := s.DB.ExecContext(ctx, query,
		stop.StopID, orderID, stop.Lat, stop.Lon,
		fmtTime(stop.StartAt), fmtTime(stop.EndAt), stop.Active,
	)
	if err != nil {
		return fmt.Errorf("insert stop %q: %w", stop.StopID, err)
	}
	return nil
}

func (s *SQLStopRepository) DeactivateAllStops(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("stop repository: DB is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `UPDATE scheduled_stops SET active = FALSE;`); err != nil {
		return fmt.Errorf("deactivate stops: %w", err)
	}
	return nil
}
