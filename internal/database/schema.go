package database

import (
	"context"
	"database/sql"
)

// sqliteSchema mirrors the columns the service reads from the reference
// tables.  Production databases are provisioned externally; this schema
// only backs local sqlite files and tests.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS countries (
	name TEXT NOT NULL,
	code TEXT NOT NULL PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS airlines (
	name     TEXT,
	iata     TEXT,
	icao     TEXT,
	callsign TEXT,
	country  TEXT
);
CREATE TABLE IF NOT EXISTS airports (
	name      TEXT,
	city      TEXT,
	country   TEXT,
	iata      TEXT,
	icao      TEXT,
	latitude  REAL,
	longitude REAL
);
CREATE TABLE IF NOT EXISTS routes (
	airline   TEXT,
	departure TEXT,
	arrival   TEXT,
	planes    TEXT
);
CREATE INDEX IF NOT EXISTS idx_routes_departure ON routes(departure);
CREATE INDEX IF NOT EXISTS idx_routes_arrival ON routes(arrival);
CREATE INDEX IF NOT EXISTS idx_routes_airline ON routes(airline);
`

// EnsureSQLiteSchema creates the reference tables when they are missing.
// It is a no-op for dialects other than SQLite.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if d != SQLite {
		return nil
	}
	_, err := db.ExecContext(ctx, sqliteSchema)
	return err
}
