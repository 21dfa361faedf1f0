package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

var seatRowColumns = []string{"id", "schedule_id", "seat_number", "status", "updated_at"}

func TestListBuses(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM buses ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bus_number", "seat_capacity", "bus_type", "route_number", "from_city", "to_city", "created_at",
		}).
			AddRow(1, "NB-1234", 40, "Normal", "1", "Colombo", "Kandy", now).
			AddRow(2, "NC-5678", 52, "Luxury", "2", "Colombo", "Galle", now))

	buses, err := store.ListBuses(context.Background())
	require.NoError(t, err)
	require.Len(t, buses, 2)
	assert.Equal(t, "NB-1234", buses[0].BusNumber)
	assert.Equal(t, "Colombo → Galle", buses[1].Route())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBusNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM buses WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	bus, err := store.GetBus(context.Background(), 99)
	assert.Nil(t, bus)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSchedulesByDate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE s.travel_date = \$1::date ORDER BY s.departure_time, s.id`).
		WithArgs("2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bus_id", "travel_date", "departure_time", "arrival_time", "created_at",
			"bus_number", "seat_capacity", "bus_type", "route_number", "from_city", "to_city", "bus_created_at",
		}).AddRow(7, 1, "2024-06-01", "08:30", "11:45", now,
			"NB-1234", 40, "Normal", "1", "Colombo", "Kandy", now))

	schedules, err := store.ListSchedulesByDate(context.Background(), "2024-06-01")
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, int64(7), schedules[0].ID)
	assert.Equal(t, "08:30", schedules[0].DepartureTime)
	require.NotNil(t, schedules[0].Bus)
	assert.Equal(t, int64(1), schedules[0].Bus.ID)
	assert.Equal(t, 40, schedules[0].Bus.SeatCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatSummaries(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM seats GROUP BY schedule_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"schedule_id", "total_seats", "available_seats", "reserved_seats", "booked_seats",
		}).AddRow(7, 40, 37, 1, 2))

	summaries, err := store.SeatSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SeatSummary{TotalSeats: 40, AvailableSeats: 37, ReservedSeats: 1, BookedSeats: 2}, summaries[7])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM seats WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(12)).
			WillReturnRows(sqlmock.NewRows(seatRowColumns).AddRow(12, 7, 12, "AVAILABLE", time.Now()))
		mock.ExpectExec(`UPDATE seats SET status = \$1`).
			WithArgs("RESERVED", int64(12)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.InTx(ctx, func(tx Tx) error {
			seat, err := tx.LockSeat(ctx, 12)
			if err != nil {
				return err
			}
			assert.Equal(t, models.SeatStatusAvailable, seat.Status)
			return tx.SetSeatStatus(ctx, seat.ID, models.SeatStatusReserved)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback On Error", func(t *testing.T) {
		store, mock := newMockStore(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Seat", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM seats WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(seatRowColumns))
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx Tx) error {
			_, err := tx.LockSeat(ctx, 404)
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLockSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("Ascending Order", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM seats WHERE id = ANY\(\$1\) ORDER BY id FOR UPDATE`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(seatRowColumns).
				AddRow(3, 7, 3, "BOOKED", now).
				AddRow(9, 7, 9, "AVAILABLE", now))
		mock.ExpectCommit()

		err := store.InTx(ctx, func(tx Tx) error {
			seats, err := tx.LockSeats(ctx, 9, 3)
			require.NoError(t, err)
			require.Len(t, seats, 2)
			assert.Equal(t, int64(3), seats[0].ID)
			assert.Equal(t, int64(9), seats[1].ID)
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Seat", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM seats WHERE id = ANY`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(seatRowColumns).AddRow(3, 7, 3, "BOOKED", time.Now()))
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx Tx) error {
			_, err := tx.LockSeats(ctx, 3, 500)
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetSeatRejectsUnknownStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM seats WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(seatRowColumns).AddRow(4, 7, 4, "BLOCKED", time.Now()))

	_, err := store.GetSeat(context.Background(), 4)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetSeatStatusRejectsUnknownStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.InTx(context.Background(), func(tx Tx) error {
		return tx.SetSeatStatus(context.Background(), 4, models.SeatStatus("BLOCKED"))
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBooking(t *testing.T) {
	ctx := context.Background()
	booking := func() *models.Booking {
		return &models.Booking{
			SeatID:        12,
			BookingCode:   "6f1c7d0e-8a44-4c1b-9a55-6b2f0c1d2e3f",
			PassengerName: "Jane Doe",
			PhoneNumber:   "0712345678",
		}
	}

	t.Run("Success", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(int64(12), sqlmock.AnyArg(), "Jane Doe", "0712345678").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))
		mock.ExpectCommit()

		b := booking()
		err := store.InTx(ctx, func(tx Tx) error { return tx.InsertBooking(ctx, b) })
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.ID)
		assert.Equal(t, now, b.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Already Booked", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: bookingSeatConstraint})
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx Tx) error { return tx.InsertBooking(ctx, booking()) })
		assert.ErrorIs(t, err, ErrSeatTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other Unique Violation", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "bookings_booking_code_key"})
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx Tx) error { return tx.InsertBooking(ctx, booking()) })
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrSeatTaken))
		assert.Contains(t, err.Error(), "failed to create booking")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.InTx(ctx, func(tx Tx) error { return tx.DeleteBooking(ctx, 5) })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBookingByCode(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	code := "6f1c7d0e-8a44-4c1b-9a55-6b2f0c1d2e3f"

	mock.ExpectQuery(`WHERE bk.booking_code = \$1`).
		WithArgs(code).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_code", "passenger_name", "phone_number", "created_at",
			"seat_id", "seat_number", "schedule_id", "bus_number", "route",
			"travel_date", "departure_time", "arrival_time",
		}).AddRow(5, code, "Jane Doe", "0712345678", now,
			12, 12, 7, "NB-1234", "Colombo → Kandy",
			"2024-06-01", "08:30", "11:45"))

	details, err := store.FindBookingByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, code, details.BookingCode)
	assert.Equal(t, 12, details.SeatNumber)
	assert.Equal(t, "Colombo → Kandy", details.Route)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSeats(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO seats`).
		WithArgs(int64(7), 40).
		WillReturnResult(sqlmock.NewResult(0, 40))
	mock.ExpectCommit()

	err := store.InTx(ctx, func(tx Tx) error { return tx.InsertSeats(ctx, 7, 40) })
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(&mockDatabase{db: db}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
