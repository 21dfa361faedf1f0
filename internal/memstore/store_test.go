package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSchedule creates a bus and one schedule with capacity seats
func seedSchedule(t *testing.T, s *Store, date, departure string, capacity int) *models.Schedule {
	t.Helper()
	ctx := context.Background()
	schedule := &models.Schedule{TravelDate: date, DepartureTime: departure, ArrivalTime: "23:00"}
	err := s.InTx(ctx, func(tx database.Tx) error {
		bus := &models.Bus{BusNumber: "NB-1234", SeatCapacity: capacity, BusType: "Normal", RouteNumber: "1", FromCity: "Colombo", ToCity: "Kandy"}
		if err := tx.InsertBus(ctx, bus); err != nil {
			return err
		}
		schedule.BusID = bus.ID
		if err := tx.InsertSchedule(ctx, schedule); err != nil {
			return err
		}
		return tx.InsertSeats(ctx, schedule.ID, capacity)
	})
	require.NoError(t, err)
	return schedule
}

func TestSeedAndList(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 40)

	seats, err := s.ListSeats(ctx, schedule.ID)
	require.NoError(t, err)
	require.Len(t, seats, 40)
	for i, seat := range seats {
		assert.Equal(t, i+1, seat.SeatNumber)
		assert.Equal(t, models.SeatStatusAvailable, seat.Status)
	}

	got, err := s.GetSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Bus)
	assert.Equal(t, "NB-1234", got.Bus.BusNumber)
}

func TestListSchedulesByDateOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	late := seedSchedule(t, s, "2024-06-01", "14:00", 4)
	early := seedSchedule(t, s, "2024-06-01", "06:15", 4)
	seedSchedule(t, s, "2024-06-02", "05:00", 4)

	schedules, err := s.ListSchedulesByDate(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, early.ID, schedules[0].ID)
	assert.Equal(t, late.ID, schedules[1].ID)

	none, err := s.ListSchedulesByDate(ctx, "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRollbackUndoesWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 4)
	seats, err := s.ListSeats(ctx, schedule.ID)
	require.NoError(t, err)
	seatID := seats[0].ID

	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx database.Tx) error {
		booking := &models.Booking{SeatID: seatID, BookingCode: "code-1", PassengerName: "Jane Doe", PhoneNumber: "0712345678"}
		if err := tx.InsertBooking(ctx, booking); err != nil {
			return err
		}
		if err := tx.SetSeatStatus(ctx, seatID, models.SeatStatusBooked); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	seat, err := s.GetSeat(ctx, seatID)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStatusAvailable, seat.Status)

	_, err = s.FindBookingByCode(ctx, "code-1")
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = s.FindBookingIDBySeat(ctx, seatID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestSetSeatStatusRejectsUnknown(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 2)
	seats, err := s.ListSeats(ctx, schedule.ID)
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx database.Tx) error {
		return tx.SetSeatStatus(ctx, seats[0].ID, models.SeatStatus("BLOCKED"))
	})
	assert.Error(t, err)

	seat, err := s.GetSeat(ctx, seats[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStatusAvailable, seat.Status)
}

func TestInsertBookingSeatTaken(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 4)
	seats, _ := s.ListSeats(ctx, schedule.ID)

	insert := func(code string) error {
		return s.InTx(ctx, func(tx database.Tx) error {
			return tx.InsertBooking(ctx, &models.Booking{SeatID: seats[1].ID, BookingCode: code})
		})
	}
	require.NoError(t, insert("a"))
	assert.ErrorIs(t, insert("b"), database.ErrSeatTaken)
}

func TestLockSeatsAscending(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 4)
	seats, _ := s.ListSeats(ctx, schedule.ID)

	err := s.InTx(ctx, func(tx database.Tx) error {
		locked, err := tx.LockSeats(ctx, seats[3].ID, seats[0].ID)
		require.NoError(t, err)
		require.Len(t, locked, 2)
		assert.Less(t, locked[0].ID, locked[1].ID)

		_, err = tx.LockSeats(ctx, seats[0].ID, 9999)
		assert.ErrorIs(t, err, database.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteScheduleRemovesSeats(t *testing.T) {
	s := New()
	ctx := context.Background()
	schedule := seedSchedule(t, s, "2024-06-01", "08:30", 4)

	require.NoError(t, s.InTx(ctx, func(tx database.Tx) error {
		return tx.DeleteSchedule(ctx, schedule.ID)
	}))

	_, err := s.GetSchedule(ctx, schedule.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	seats, err := s.ListSeats(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Empty(t, seats)

	stats, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBuses)
	assert.Equal(t, 0, stats.TotalSchedules)
	assert.Equal(t, 0, stats.TotalSeats)
}

func TestCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.InTx(ctx, func(tx database.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.ListBuses(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdminUsers(t *testing.T) {
	users := NewAdminUsers()
	ctx := context.Background()

	admin := &models.AdminUser{Username: "admin", PasswordHash: "hash", IsActive: true}
	require.NoError(t, users.Create(ctx, admin))
	assert.Equal(t, int64(1), admin.ID)
	assert.Error(t, users.Create(ctx, &models.AdminUser{Username: "admin"}))

	require.NoError(t, users.UpdateLastLogin(ctx, admin.ID))
	got, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)

	_, err = users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, users.UpdateLastLogin(ctx, 42), database.ErrNotFound)
}
