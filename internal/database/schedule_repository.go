package database

import (
	"context"
	"fmt"
	"time"

	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// DATE and TIME columns are rendered as text so they scan into the wire format
const scheduleColumns = `
	s.id, s.bus_id, s.travel_date::text AS travel_date,
	to_char(s.departure_time, 'HH24:MI') AS departure_time,
	to_char(s.arrival_time, 'HH24:MI') AS arrival_time, s.created_at`

const scheduleBusColumns = scheduleColumns + `,
	b.bus_number, b.seat_capacity, b.bus_type, b.route_number,
	b.from_city, b.to_city, b.created_at AS bus_created_at`

// scheduleRow is a schedule joined with its bus
type scheduleRow struct {
	models.Schedule
	BusNumber    string    `db:"bus_number"`
	SeatCapacity int       `db:"seat_capacity"`
	BusType      string    `db:"bus_type"`
	RouteNumber  string    `db:"route_number"`
	FromCity     string    `db:"from_city"`
	ToCity       string    `db:"to_city"`
	BusCreatedAt time.Time `db:"bus_created_at"`
}

func (r scheduleRow) toSchedule() models.Schedule {
	schedule := r.Schedule
	schedule.Bus = &models.Bus{
		ID:           r.BusID,
		BusNumber:    r.BusNumber,
		SeatCapacity: r.SeatCapacity,
		BusType:      r.BusType,
		RouteNumber:  r.RouteNumber,
		FromCity:     r.FromCity,
		ToCity:       r.ToCity,
		CreatedAt:    r.BusCreatedAt,
	}
	return schedule
}

func toSchedules(rows []scheduleRow) []models.Schedule {
	schedules := make([]models.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.toSchedule())
	}
	return schedules
}

// ListSchedules returns all schedules ordered by travel date and departure
func (s *PostgresStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var rows []scheduleRow
	query := `
		SELECT ` + scheduleBusColumns + `
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		ORDER BY s.travel_date, s.departure_time, s.id
	`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return toSchedules(rows), nil
}

// ListSchedulesByDate returns the schedules of one travel date by departure time
func (s *PostgresStore) ListSchedulesByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	var rows []scheduleRow
	query := `
		SELECT ` + scheduleBusColumns + `
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		WHERE s.travel_date = $1::date
		ORDER BY s.departure_time, s.id
	`
	if err := s.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("failed to list schedules by date: %w", err)
	}
	return toSchedules(rows), nil
}

// GetSchedule retrieves a schedule with its bus
func (s *PostgresStore) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	var row scheduleRow
	query := `
		SELECT ` + scheduleBusColumns + `
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		WHERE s.id = $1
	`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "schedule")
	}
	schedule := row.toSchedule()
	return &schedule, nil
}

// InsertSchedule creates a new schedule and fills in its id
func (t *pgTx) InsertSchedule(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (bus_id, travel_date, departure_time, arrival_time)
		VALUES ($1, $2::date, $3::time, $4::time)
		RETURNING id, created_at
	`
	err := t.tx.QueryRowxContext(ctx, query,
		schedule.BusID, schedule.TravelDate, schedule.DepartureTime, schedule.ArrivalTime,
	).Scan(&schedule.ID, &schedule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// LockSchedule locks a schedule row for the rest of the transaction
func (t *pgTx) LockSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT ` + scheduleColumns + ` FROM schedules s WHERE s.id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, notFound(err, "schedule")
	}
	return &schedule, nil
}

// CountBookingsForSchedule counts the bookings held on a schedule's seats
func (t *pgTx) CountBookingsForSchedule(ctx context.Context, scheduleID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM bookings bk
		JOIN seats st ON st.id = bk.seat_id
		WHERE st.schedule_id = $1
	`
	if err := t.tx.GetContext(ctx, &count, query, scheduleID); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// DeleteSchedule deletes a schedule and its seats
func (t *pgTx) DeleteSchedule(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM seats WHERE schedule_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete seats: %w", err)
	}
	result, err := t.tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return requireAffected(result, "schedule")
}
