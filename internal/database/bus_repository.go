package database

import (
	"context"
	"fmt"

	"github.com/smarttransit/seat-booking-backend/internal/models"
)

const busColumns = `id, bus_number, seat_capacity, bus_type, route_number, from_city, to_city, created_at`

// ListBuses returns all buses ordered by id
func (s *PostgresStore) ListBuses(ctx context.Context) ([]models.Bus, error) {
	buses := []models.Bus{}
	query := `SELECT ` + busColumns + ` FROM buses ORDER BY id`
	if err := s.db.SelectContext(ctx, &buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	return buses, nil
}

// GetBus retrieves a bus by ID
func (s *PostgresStore) GetBus(ctx context.Context, id int64) (*models.Bus, error) {
	var bus models.Bus
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`
	if err := s.db.GetContext(ctx, &bus, query, id); err != nil {
		return nil, notFound(err, "bus")
	}
	return &bus, nil
}

// InsertBus creates a new bus and fills in its id
func (t *pgTx) InsertBus(ctx context.Context, bus *models.Bus) error {
	query := `
		INSERT INTO buses (bus_number, seat_capacity, bus_type, route_number, from_city, to_city)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := t.tx.QueryRowxContext(ctx, query,
		bus.BusNumber, bus.SeatCapacity, bus.BusType, bus.RouteNumber, bus.FromCity, bus.ToCity,
	).Scan(&bus.ID, &bus.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}
	return nil
}

// LockBus locks a bus row for the rest of the transaction
func (t *pgTx) LockBus(ctx context.Context, id int64) (*models.Bus, error) {
	var bus models.Bus
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &bus, query, id); err != nil {
		return nil, notFound(err, "bus")
	}
	return &bus, nil
}

// CountSchedulesForBus counts the schedules that reference a bus
func (t *pgTx) CountSchedulesForBus(ctx context.Context, busID int64) (int, error) {
	var count int
	if err := t.tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedules WHERE bus_id = $1`, busID); err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

// DeleteBus deletes a bus
func (t *pgTx) DeleteBus(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}
	return requireAffected(result, "bus")
}
