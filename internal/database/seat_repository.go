package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

const seatColumns = `id, schedule_id, seat_number, status, updated_at`

// ListSeats returns the seats of a schedule by seat number
func (s *PostgresStore) ListSeats(ctx context.Context, scheduleID int64) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE schedule_id = $1 ORDER BY seat_number`
	if err := s.db.SelectContext(ctx, &seats, query, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

// GetSeat retrieves a seat by ID
func (s *PostgresStore) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	var seat models.Seat
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`
	if err := s.db.GetContext(ctx, &seat, query, id); err != nil {
		return nil, notFound(err, "seat")
	}
	return &seat, nil
}

// SeatSummaries counts seats by status for every schedule
func (s *PostgresStore) SeatSummaries(ctx context.Context) (map[int64]models.SeatSummary, error) {
	var rows []struct {
		ScheduleID int64 `db:"schedule_id"`
		models.SeatSummary
	}
	query := `
		SELECT schedule_id,
			COUNT(*) AS total_seats,
			COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available_seats,
			COUNT(*) FILTER (WHERE status = 'RESERVED') AS reserved_seats,
			COUNT(*) FILTER (WHERE status = 'BOOKED') AS booked_seats
		FROM seats
		GROUP BY schedule_id
	`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to summarise seats: %w", err)
	}

	summaries := make(map[int64]models.SeatSummary, len(rows))
	for _, row := range rows {
		summaries[row.ScheduleID] = row.SeatSummary
	}
	return summaries, nil
}

// LockSeat locks one seat row for the rest of the transaction
func (t *pgTx) LockSeat(ctx context.Context, id int64) (*models.Seat, error) {
	var seat models.Seat
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &seat, query, id); err != nil {
		return nil, notFound(err, "seat")
	}
	return &seat, nil
}

// LockSeats locks several seats. Rows are locked in ascending id order so two
// transactions over the same pair of seats cannot deadlock.
func (t *pgTx) LockSeats(ctx context.Context, ids ...int64) ([]models.Seat, error) {
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	seats := []models.Seat{}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	if err := t.tx.SelectContext(ctx, &seats, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}
	if len(seats) != len(unique) {
		return nil, fmt.Errorf("seat: %w", ErrNotFound)
	}
	return seats, nil
}

// SetSeatStatus writes a seat status
func (t *pgTx) SetSeatStatus(ctx context.Context, id int64, status models.SeatStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid seat status %q", status)
	}
	result, err := t.tx.ExecContext(ctx,
		`UPDATE seats SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update seat status: %w", err)
	}
	return requireAffected(result, "seat")
}

// InsertSeats seeds seats 1..capacity as AVAILABLE
func (t *pgTx) InsertSeats(ctx context.Context, scheduleID int64, capacity int) error {
	query := `
		INSERT INTO seats (schedule_id, seat_number, status)
		SELECT $1, n, 'AVAILABLE' FROM generate_series(1, $2::int) AS n
	`
	if _, err := t.tx.ExecContext(ctx, query, scheduleID, capacity); err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}
	return nil
}
