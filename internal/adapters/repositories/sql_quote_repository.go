package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
)

// SQL-backed implementation of the QuoteRepository and UsageRepository
// ports. ConfirmQuote is the one write path with real consistency content:
// the pending->confirmed flip is a compare-and-swap inside a transaction that
// also carries the capacity increment, order and stop writes.
type SQLQuoteRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLQuoteRepository(conn *sql.DB, dialect db.Dialect) *SQLQuoteRepository {
	return &SQLQuoteRepository{DB: conn, Dialect: dialect}
}

func (s *SQLQuoteRepository) CreateQuote(ctx context.Context, q domain.Quote) error {
	if s.DB == nil {
		return errors.New("quote repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, `
	INSERT INTO quotes (
		quote_id, cart_id, slot_id, location_id, lat, lon,
		subtotal_cents, delivery_fee_cents, discount_cents, total_cents,
		locked_until, state, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	_, err := s.DB.ExecContext(ctx, query,
		q.QuoteID, q.CartID, q.SlotID, q.LocationID, q.Lat, q.Lon,
		q.Amounts.SubtotalCents, q.Amounts.DeliveryFeeCents,
		q.Amounts.DiscountCents, q.Amounts.TotalCents,
		fmtTime(q.LockedUntil), string(q.State), fmtTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create quote %q: %w", q.QuoteID, err)
	}
	return nil
}

func (s *SQLQuoteRepository) GetQuote(ctx context.Context, quoteID string) (domain.Quote, error) {
	if s.DB == nil {
		return domain.Quote{}, errors.New("quote repository: DB is nil")
	}
	return scanQuote(s.DB.QueryRowContext(ctx, db.Rebind(s.Dialect, `
	SELECT quote_id, cart_id, slot_id, location_id, lat, lon,
		subtotal_cents, delivery_fee_cents, discount_cents, total_cents,
		locked_until, state, created_at
	FROM quotes
	WHERE quote_id = ?;
	`), quoteID))
}

func scanQuote(row *sql.Row) (domain.Quote, error) {
	var q domain.Quote
	var lockedRaw, stateRaw, createdRaw string
	err := row.Scan(
		&q.QuoteID, &q.CartID, &q.SlotID, &q.LocationID, &q.Lat, &q.Lon,
		&q.Amounts.SubtotalCents, &q.Amounts.DeliveryFeeCents,
		&q.Amounts.DiscountCents, &q.Amounts.TotalCents,
		&lockedRaw, &stateRaw, &createdRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Quote{}, fmt.Errorf("scan quote: %w", err)
	}
	if q.LockedUntil, err = parseTime(lockedRaw); err != nil {
		return domain.Quote{}, fmt.Errorf("quote %q: %w", q.QuoteID, err)
	}
	if q.CreatedAt, err = parseTime(createdRaw); err != nil {
		return domain.Quote{}, fmt.Errorf("quote %q: %w", q.QuoteID, err)
	}
	q.State = domain.QuoteState(stateRaw)
	return q, nil
}

// ConfirmQuote implements the confirmation transaction described on the port.
func (s *SQLQuoteRepository) ConfirmQuote(
	ctx context.Context,
	quoteID string,
	capacityTotal int,
	order domain.Order,
	stop domain.ScheduledStop,
) (bool, error) {
	if s.DB == nil {
		return false, errors.New("quote repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("confirm quote: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var slotID, state string
	err = tx.QueryRowContext(ctx,
		db.Rebind(s.Dialect, `SELECT slot_id, state FROM quotes WHERE quote_id = ?;`), quoteID,
	).Scan(&slotID, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("confirm quote: read quote: %w", err)
	}
	if domain.QuoteState(state) == domain.QuoteConfirmed {
		// Duplicate webhook delivery: success, no side effects.
		return true, nil
	}

	var used int
	err = tx.QueryRowContext(ctx,
		db.Rebind(s.Dialect, `SELECT used FROM slot_usage WHERE slot_id = ?;`), slotID,
	).Scan(&used)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("confirm quote: read slot usage: %w", err)
	}
	if used >= capacityTotal {
		return false, domain.ErrCapacityExhausted
	}

	// Compare-and-swap on the quote state; a concurrent confirmation loses
	// the race here and sees zero rows affected.
	res, err := tx.ExecContext(ctx,
		db.Rebind(s.Dialect, `UPDATE quotes SET state = ? WHERE quote_id = ? AND state = ?;`),
		string(domain.QuoteConfirmed), quoteID, string(domain.QuotePending),
	)
	if err != nil {
		return false, fmt.Errorf("confirm quote: flip state: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("confirm quote: rows affected: %w", err)
	} else if n == 0 {
		return true, nil
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO slot_usage (slot_id, used) VALUES (?, 1)
	ON CONFLICT (slot_id) DO UPDATE SET used = slot_usage.used + 1;
	`), slotID); err != nil {
		return false, fmt.Errorf("confirm quote: increment usage: %w", err)
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO orders (
		order_id, cart_id, slot_id, location_id,
		subtotal_cents, delivery_fee_cents, discount_cents, total_cents,
		status, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		order.OrderID, order.CartID, order.SlotID, order.LocationID,
		order.Amounts.SubtotalCents, order.Amounts.DeliveryFeeCents,
		order.Amounts.DiscountCents, order.Amounts.TotalCents,
		order.Status, fmtTime(order.CreatedAt),
	); err != nil {
		return false, fmt.Errorf("confirm quote: insert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO scheduled_stops (stop_id, order_id, lat, lon, start_at, end_at, active)
	VALUES (?, ?, ?, ?, ?, ?, TRUE);
	`),
		stop.StopID, stop.OrderID, stop.Lat, stop.Lon,
		fmtTime(stop.StartAt), fmtTime(stop.EndAt),
	); err != nil {
		return false, fmt.Errorf("confirm quote: insert stop: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("confirm quote: commit tx: %w", err)
	}
	return false, nil
}

// Return used counts for the given slot ids; missing rows count as zero.
func (s *SQLQuoteRepository) UsageFor(ctx context.Context, slotIDs []string) (map[string]int, error) {
	if s.DB == nil {
		return nil, errors.New("quote repository: DB is nil")
	}

	out := make(map[string]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return out, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(slotIDs))
	ph := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, "?")
	}
	if len(uniq) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		args = append(args, id)
	}

	// Neither driver binds slices directly in an IN (...) clause. Only the
	// placeholder structure is interpolated; values stay parameterized.
	q := db.Rebind(s.Dialect, fmt.Sprintf(`
	SELECT slot_id, used
	FROM slot_usage
	WHERE slot_id IN (%s);
	`, strings.Join(ph, ",")))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("slot usage: query slot_usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var used int
		if err := rows.Scan(&id, &used); err != nil {
			return nil, fmt.Errorf("slot usage: scan row: %w", err)
		}
		out[id] = used
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("slot usage: row iteration: %w", err)
	}

	return out, nil
}
