package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"slot-pricing-service/internal/platform/db"
)

// Initialize the database schema. The DDL is portable across the SQLite and
// Postgres drivers this service ships with.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			product_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			unit_factor INTEGER NOT NULL DEFAULT 1,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			qty INTEGER NOT NULL,
			PRIMARY KEY (cart_id, product_id)
		);`,
		`CREATE TABLE IF NOT EXISTS locations (
			location_id TEXT PRIMARY KEY,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			address TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_stops (
			stop_id TEXT PRIMARY KEY,
			order_id TEXT,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			start_at TEXT NOT NULL,
			end_at TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS quotes (
			quote_id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			location_id TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			subtotal_cents INTEGER NOT NULL,
			delivery_fee_cents INTEGER NOT NULL,
			discount_cents INTEGER NOT NULL,
			total_cents INTEGER NOT NULL,
			locked_until TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			location_id TEXT NOT NULL,
			subtotal_cents INTEGER NOT NULL,
			delivery_fee_cents INTEGER NOT NULL,
			discount_cents INTEGER NOT NULL,
			total_cents INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS slot_usage (
			slot_id TEXT PRIMARY KEY,
			used INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon REAL NOT NULL,
			lat REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			profile TEXT NOT NULL,
			distance_meters REAL NOT NULL,
			duration_seconds REAL NOT NULL,
			PRIMARY KEY (origin, destination, profile)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stops_active_start
			ON scheduled_stops(active, start_at);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_state
			ON quotes(state);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ProductSeed struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	UnitFactor int    `json:"unit_factor"`
	Active     *bool  `json:"active,omitempty"`
}

// Dialect selects placeholder syntax for statements that carry parameters.
// The repositories in this package are written against ? markers and rebound
// per dialect, so one implementation serves both drivers.
type Dialect = db.Dialect

const (
	DialectSQLite   = db.DialectSQLite
	DialectPostgres = db.DialectPostgres
)

// Populate the product catalog from a JSON seed file. Existing rows are
// updated in place so reseeding is idempotent.
func SeedProductsFromJSON(conn *sql.DB, jsonPath string, dialect Dialect) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed products: read %q: %w", jsonPath, err)
	}

	var data []ProductSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed products: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("seed products: missing product_id at index %d", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed products: product %q: name cannot be empty", item.ProductID)
		}
		if item.PriceCents < 0 {
			return fmt.Errorf("seed products: product %q: negative price", item.ProductID)
		}
		if item.UnitFactor < 1 {
			return fmt.Errorf("seed products: product %q: unit_factor must be at least 1", item.ProductID)
		}
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed products: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO products (product_id, name, price_cents, unit_factor, active)
	VALUES (%s)
	ON CONFLICT (product_id) DO UPDATE SET
		name = excluded.name,
		price_cents = excluded.price_cents,
		unit_factor = excluded.unit_factor,
		active = excluded.active;
	`, db.Placeholders(dialect, 5))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed products: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		if _, err := stmt.Exec(p.ProductID, p.Name, p.PriceCents, p.UnitFactor, active); err != nil {
			return fmt.Errorf("seed products: insert product_id=%s: %w", p.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed products: commit tx: %w", err)
	}

	return nil
}
