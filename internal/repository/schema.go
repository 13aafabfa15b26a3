package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS flights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flight_number TEXT NOT NULL UNIQUE,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	departure_time TEXT NOT NULL,
	arrival_time TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	aircraft_type TEXT NOT NULL,
	seats_total INTEGER NOT NULL,
	seats_available INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	process_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_flights_origin ON flights(origin);
CREATE INDEX IF NOT EXISTS idx_flights_destination ON flights(destination);
`

const pgSchema = `
CREATE TABLE IF NOT EXISTS flights (
	id BIGSERIAL PRIMARY KEY,
	flight_number VARCHAR(20) NOT NULL UNIQUE,
	origin VARCHAR(10) NOT NULL,
	destination VARCHAR(10) NOT NULL,
	departure_time TIMESTAMPTZ NOT NULL,
	arrival_time TIMESTAMPTZ NOT NULL,
	duration_minutes INTEGER NOT NULL,
	aircraft_type VARCHAR(50) NOT NULL,
	seats_total INTEGER NOT NULL,
	seats_available INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	process_id VARCHAR(20)
);

CREATE INDEX IF NOT EXISTS idx_flights_origin ON flights(origin);
CREATE INDEX IF NOT EXISTS idx_flights_destination ON flights(destination);
`

// EnsurePGSchema creates the flights table and indexes if they do not exist.
func EnsurePGSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
