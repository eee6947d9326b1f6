package db

import (
	"strconv"
	"strings"
)

// Dialect selects the parameter placeholder syntax of the connected engine.
// Statements are written with ? markers and rebound for Postgres.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a connection URL to its dialect; anything that is not a
// postgres:// URL is treated as a SQLite file path.
func DialectFor(databaseURL string) Dialect {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Placeholders returns n comma-separated parameter markers for the dialect.
func Placeholders(d Dialect, n int) string {
	ph := make([]string, n)
	for i := range ph {
		if d == DialectPostgres {
			ph[i] = "$" + strconv.Itoa(i+1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ", ")
}

// Rebind rewrites ? markers into the dialect's positional form. SQLite
// statements pass through unchanged; Postgres gets $1..$n in order. Queries
// must not contain a literal question mark outside a parameter position.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
