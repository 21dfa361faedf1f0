package database

import (
	"fmt"
)

// schemaStatements create the tables the store needs. Each statement is
// idempotent so Migrate can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS buses (
		id            BIGSERIAL PRIMARY KEY,
		bus_number    TEXT NOT NULL,
		seat_capacity INTEGER NOT NULL CHECK (seat_capacity > 0),
		bus_type      TEXT NOT NULL,
		route_number  TEXT NOT NULL,
		from_city     TEXT NOT NULL,
		to_city       TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id             BIGSERIAL PRIMARY KEY,
		bus_id         BIGINT NOT NULL REFERENCES buses(id) ON DELETE RESTRICT,
		travel_date    DATE NOT NULL,
		departure_time TIME NOT NULL,
		arrival_time   TIME NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_travel_date ON schedules (travel_date, departure_time)`,
	`CREATE TABLE IF NOT EXISTS seats (
		id          BIGSERIAL PRIMARY KEY,
		schedule_id BIGINT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		seat_number INTEGER NOT NULL CHECK (seat_number > 0),
		status      TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE', 'RESERVED', 'BOOKED')),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (schedule_id, seat_number)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id             BIGSERIAL PRIMARY KEY,
		seat_id        BIGINT NOT NULL UNIQUE REFERENCES seats(id) ON DELETE RESTRICT,
		booking_code   TEXT NOT NULL UNIQUE,
		passenger_name TEXT NOT NULL,
		phone_number   TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema
func Migrate(db DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Truncate removes all fleet and booking data, keeping admin users
func Truncate(db DB) error {
	_, err := db.Exec(`TRUNCATE TABLE bookings, seats, schedules, buses RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
