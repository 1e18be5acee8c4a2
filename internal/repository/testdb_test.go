package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-explorer/internal/database"
)

const seedSQL = `
INSERT INTO countries (name, code) VALUES
	('United States', 'US'),
	('United Kingdom', 'GB'),
	('Iceland', 'IS');

INSERT INTO airlines (name, iata, icao, callsign, country) VALUES
	('American Airlines', 'AA', 'AAL', 'AMERICAN', 'United States'),
	('British Airways', 'BA', 'BAW', 'SPEEDBIRD', 'United Kingdom'),
	('Charter Only', NULL, 'CHR', 'CHARTER', 'United States'),
	('Blank Code', '', 'BLK', 'BLANK', 'United Kingdom');

INSERT INTO airports (name, city, country, iata, icao, latitude, longitude) VALUES
	('John F Kennedy International Airport', 'New York', 'United States', 'JFK', 'KJFK', 40.6413, -73.7781),
	('Los Angeles International Airport', 'Los Angeles', 'United States', 'LAX', 'KLAX', 33.9416, -118.4085),
	('London Heathrow Airport', 'London', 'United Kingdom', 'LHR', 'EGLL', 51.4700, -0.4543),
	('Nowhere Field', 'Nowhere', 'United States', 'NWH', 'KNWH', NULL, NULL),
	('Private Strip', 'Somewhere', 'United States', NULL, 'KPVT', 40.0, -75.0);

INSERT INTO routes (airline, departure, arrival, planes) VALUES
	('AA', 'JFK', 'LHR', '777'),
	('BA', 'JFK', 'LHR', '744 777'),
	('AA', 'JFK', 'LHR', '738'),
	('AA', 'JFK', 'LAX', '738 321'),
	('BA', 'LHR', 'JFK', '744'),
	('AA', 'LAX', 'JFK', '321');
`

// newTestStore returns a Store over a seeded in-memory sqlite database.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, d, err := database.Open(database.Options{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, database.EnsureSQLiteSchema(ctx, db, d))
	_, err = db.ExecContext(ctx, seedSQL)
	require.NoError(t, err)
	return NewStore(db, d), db
}
