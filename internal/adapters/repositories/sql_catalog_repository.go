package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
)

// SQL-backed implementation of the ProductRepository, CartRepository and
// LocationRepository ports.
type SQLCatalogRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLCatalogRepository(conn *sql.DB, dialect db.Dialect) *SQLCatalogRepository {
	return &SQLCatalogRepository{DB: conn, Dialect: dialect}
}

func (s *SQLCatalogRepository) Products(ctx context.Context) (map[string]domain.Product, error) {
	if s.DB == nil {
		return nil, errors.New("catalog repository: DB is nil")
	}

	query := `
	SELECT product_id, name, price_cents, unit_factor, active
	FROM products;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load products: query products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, 16)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.PriceCents, &p.UnitFactor, &p.Active); err != nil {
			return nil, fmt.Errorf("load products: scan row: %w", err)
		}
		products[p.ProductID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load products: row iteration: %w", err)
	}

	return products, nil
}

func (s *SQLCatalogRepository) CreateCart(ctx context.Context, cart domain.Cart) error {
	if s.DB == nil {
		return errors.New("catalog repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create cart: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		db.Rebind(s.Dialect, `INSERT INTO carts (cart_id, created_at) VALUES (?, ?);`),
		cart.CartID, fmtTime(time.Now()),
	); err != nil {
		return fmt.Errorf("create cart %q: %w", cart.CartID, err)
	}

	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO cart_items (cart_id, product_id, qty)
	VALUES (?, ?, ?)
	ON CONFLICT (cart_id, product_id) DO UPDATE SET qty = cart_items.qty + excluded.qty;
	`))
	if err != nil {
		return fmt.Errorf("create cart: prepare items insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range cart.Items {
		if _, err := stmt.ExecContext(ctx, cart.CartID, it.ProductID, it.Qty); err != nil {
			return fmt.Errorf("create cart: insert item %q: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create cart: commit tx: %w", err)
	}
	return nil
}

func (s *SQLCatalogRepository) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if s.DB == nil {
		return domain.Cart{}, errors.New("catalog repository: DB is nil")
	}

	var exists int
	err := s.DB.QueryRowContext(ctx,
		db.Rebind(s.Dialect, `SELECT COUNT(1) FROM carts WHERE cart_id = ?;`), cartID,
	).Scan(&exists)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart %q: %w", cartID, err)
	}
	if exists == 0 {
		return domain.Cart{}, domain.ErrNotFound
	}

	rows, err := s.DB.QueryContext(ctx, db.Rebind(s.Dialect, `
	SELECT product_id, qty
	FROM cart_items
	WHERE cart_id = ?
	ORDER BY product_id;
	`), cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart %q: query items: %w", cartID, err)
	}
	defer rows.Close()

	cart := domain.Cart{CartID: cartID}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.Qty); err != nil {
			return domain.Cart{}, fmt.Errorf("get cart %q: scan item: %w", cartID, err)
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("get cart %q: row iteration: %w", cartID, err)
	}

	return cart, nil
}

func (s *SQLCatalogRepository) CreateLocation(ctx context.Context, loc domain.Location) error {
	if s.DB == nil {
		return errors.New("catalog repository: DB is nil")
	}
	_, err := s.DB.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO locations (location_id, lat, lon, address)
	VALUES (?, ?, ?, ?);
	`), loc.LocationID, loc.Lat, loc.Lon, loc.Address)
	if err != nil {
		return fmt.Errorf("create location %q: %w", loc.LocationID, err)
	}
	return nil
}

func (s *SQLCatalogRepository) GetLocation(ctx context.Context, locationID string) (domain.Location, error) {
	if s.DB == nil {
		return domain.Location{}, errors.New("catalog repository: DB is nil")
	}

	var loc domain.Location
	err := s.DB.QueryRowContext(ctx, db.Rebind(s.Dialect, `
	SELECT location_id, lat, lon, address
	FROM locations
	WHERE location_id = ?;
	`), locationID).Scan(&loc.LocationID, &loc.Lat, &loc.Lon, &loc.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %q: %w", locationID, err)
	}
	return loc, nil
}
