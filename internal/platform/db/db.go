package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open selects the driver from the URL shape: postgres:// URLs use the pgx
// stdlib driver, everything else is treated as a SQLite file path.
func Open(databaseURL string) (*sql.DB, error) {
	if DialectFor(databaseURL) == DialectPostgres {
		return openPostgres(databaseURL)
	}
	return OpenSQLite(databaseURL)
}

func openPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// OpenSQLite opens the given file (or ":memory:") with the serialized
// single-writer settings this service relies on.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	// The confirmation transaction assumes one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
