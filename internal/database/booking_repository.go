package database

import (
	"context"
	"fmt"

	"github.com/smarttransit/seat-booking-backend/internal/models"
)

const bookingColumns = `id, seat_id, booking_code, passenger_name, phone_number, created_at`

// bookingDetailsQuery joins a booking with its seat, schedule and bus
const bookingDetailsQuery = `
	SELECT bk.id, bk.booking_code, bk.passenger_name, bk.phone_number, bk.created_at,
		st.id AS seat_id, st.seat_number, s.id AS schedule_id,
		b.bus_number, b.from_city || ' → ' || b.to_city AS route,
		s.travel_date::text AS travel_date,
		to_char(s.departure_time, 'HH24:MI') AS departure_time,
		to_char(s.arrival_time, 'HH24:MI') AS arrival_time
	FROM bookings bk
	JOIN seats st ON st.id = bk.seat_id
	JOIN schedules s ON s.id = st.schedule_id
	JOIN buses b ON b.id = s.bus_id
`

// GetBookingDetails retrieves a booking with its trip details
func (s *PostgresStore) GetBookingDetails(ctx context.Context, id int64) (*models.BookingDetails, error) {
	var details models.BookingDetails
	if err := s.db.GetContext(ctx, &details, bookingDetailsQuery+` WHERE bk.id = $1`, id); err != nil {
		return nil, notFound(err, "booking")
	}
	return &details, nil
}

// FindBookingByCode retrieves a booking by its exact booking code
func (s *PostgresStore) FindBookingByCode(ctx context.Context, code string) (*models.BookingDetails, error) {
	var details models.BookingDetails
	if err := s.db.GetContext(ctx, &details, bookingDetailsQuery+` WHERE bk.booking_code = $1`, code); err != nil {
		return nil, notFound(err, "booking")
	}
	return &details, nil
}

// FindBookingIDBySeat returns the id of the booking holding a seat
func (s *PostgresStore) FindBookingIDBySeat(ctx context.Context, seatID int64) (int64, error) {
	var id int64
	if err := s.db.GetContext(ctx, &id, `SELECT id FROM bookings WHERE seat_id = $1`, seatID); err != nil {
		return 0, notFound(err, "booking")
	}
	return id, nil
}

// ListBookingDetails returns all bookings, newest first
func (s *PostgresStore) ListBookingDetails(ctx context.Context) ([]models.BookingDetails, error) {
	bookings := []models.BookingDetails{}
	if err := s.db.SelectContext(ctx, &bookings, bookingDetailsQuery+` ORDER BY bk.created_at DESC, bk.id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// DashboardStats counts buses, schedules, bookings and seats by status
func (s *PostgresStore) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM buses) AS total_buses,
			(SELECT COUNT(*) FROM schedules) AS total_schedules,
			(SELECT COUNT(*) FROM bookings) AS total_bookings,
			COUNT(*) AS total_seats,
			COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available_seats,
			COUNT(*) FILTER (WHERE status = 'RESERVED') AS reserved_seats,
			COUNT(*) FILTER (WHERE status = 'BOOKED') AS booked_seats
		FROM seats
	`
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

// LockBooking locks a booking row for the rest of the transaction
func (t *pgTx) LockBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &booking, query, id); err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}

// InsertBooking creates a booking and fills in its id. A second booking for
// the same seat is reported as ErrSeatTaken.
func (t *pgTx) InsertBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (seat_id, booking_code, passenger_name, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := t.tx.QueryRowxContext(ctx, query,
		booking.SeatID, booking.BookingCode, booking.PassengerName, booking.PhoneNumber,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, bookingSeatConstraint) {
			return ErrSeatTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// DeleteBooking deletes a booking
func (t *pgTx) DeleteBooking(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return requireAffected(result, "booking")
}

// UpdateBookingSeat points a booking at another seat
func (t *pgTx) UpdateBookingSeat(ctx context.Context, id, seatID int64) error {
	result, err := t.tx.ExecContext(ctx, `UPDATE bookings SET seat_id = $1 WHERE id = $2`, seatID, id)
	if err != nil {
		if isUniqueViolation(err, bookingSeatConstraint) {
			return ErrSeatTaken
		}
		return fmt.Errorf("failed to move booking: %w", err)
	}
	return requireAffected(result, "booking")
}
