package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/platform/db"
)

const settingsKey = "global"

// SQL-backed implementation of the SettingsStore and MaintenanceStore
// ports. The settings document is one JSON row; the snapshot/RCU discipline
// lives in the service layer.
type SQLSettingsStore struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLSettingsStore(conn *sql.DB, dialect db.Dialect) *SQLSettingsStore {
	return &SQLSettingsStore{DB: conn, Dialect: dialect}
}

func (s *SQLSettingsStore) LoadSettings(ctx context.Context) (domain.Settings, bool, error) {
	if s.DB == nil {
		return domain.Settings{}, false, errors.New("settings store: DB is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx,
		db.Rebind(s.Dialect, `SELECT value FROM settings WHERE key = ?;`), settingsKey,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, false, nil
	}
	if err != nil {
		return domain.Settings{}, false, fmt.Errorf("load settings: %w", err)
	}

	var cfg domain.Settings
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return domain.Settings{}, false, fmt.Errorf("load settings: parse document: %w", err)
	}
	return cfg, true, nil
}

func (s *SQLSettingsStore) SaveSettings(ctx context.Context, cfg domain.Settings) error {
	if s.DB == nil {
		return errors.New("settings store: DB is nil")
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save settings: marshal document: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value;
	`), settingsKey, string(raw)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset clears dynamic state for dev/test runs: carts, quotes, orders and
// usage counters always; with full=true the stop set is deactivated too.
// Stops are never deleted.
func (s *SQLSettingsStore) Reset(ctx context.Context, full bool) error {
	if s.DB == nil {
		return errors.New("settings store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reset: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM cart_items;`,
		`DELETE FROM carts;`,
		`DELETE FROM quotes;`,
		`DELETE FROM orders;`,
		`DELETE FROM slot_usage;`,
	}
	if full {
		statements = append(statements, `UPDATE scheduled_stops SET active = FALSE;`)
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset: commit tx: %w", err)
	}
	return nil
}
