// Package dbx holds the small database/sql helpers used by the SQL image
// index: a handle interface shared by *sql.DB and *sql.Tx and placeholder
// rebinding for the supported dialects.
package dbx

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect names the SQL flavour behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// GooseDialect returns the dialect name goose expects for d.
func (d Dialect) GooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// pgKeywords are the libpq keywords that mark a keyword/value DSN such as
// "host=db user=app dbname=images".
var pgKeywords = map[string]struct{}{
	"host": {}, "hostaddr": {}, "port": {}, "dbname": {}, "user": {},
	"password": {}, "sslmode": {}, "connect_timeout": {},
}

// DialectFromDSN picks postgres for postgres:// and postgresql:// URLs and
// for libpq keyword/value strings, and sqlite for everything else.
func DialectFromDSN(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	for _, field := range strings.Fields(lower) {
		key, _, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		if _, ok := pgKeywords[strings.TrimSpace(key)]; ok {
			return DialectPostgres
		}
	}
	return DialectSQLite
}

// Rebind rewrites "?" placeholders to "$1", "$2", ... for postgres.
// Queries for sqlite are returned unchanged. Question marks inside single
// quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
