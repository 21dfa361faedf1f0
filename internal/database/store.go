package database

import (
	"context"
	"errors"

	"github.com/smarttransit/seat-booking-backend/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrSeatTaken is returned when a second booking is inserted for a seat
	ErrSeatTaken = errors.New("seat already has a booking")
)

// Store is the persistence behind the allocation engine and the query surface.
// Reads take no locks. All mutations go through InTx.
type Store interface {
	ListBuses(ctx context.Context) ([]models.Bus, error)
	GetBus(ctx context.Context, id int64) (*models.Bus, error)

	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	ListSchedulesByDate(ctx context.Context, date string) ([]models.Schedule, error)
	GetSchedule(ctx context.Context, id int64) (*models.Schedule, error)

	ListSeats(ctx context.Context, scheduleID int64) ([]models.Seat, error)
	GetSeat(ctx context.Context, id int64) (*models.Seat, error)
	SeatSummaries(ctx context.Context) (map[int64]models.SeatSummary, error)

	GetBookingDetails(ctx context.Context, id int64) (*models.BookingDetails, error)
	FindBookingByCode(ctx context.Context, code string) (*models.BookingDetails, error)
	FindBookingIDBySeat(ctx context.Context, seatID int64) (int64, error)
	ListBookingDetails(ctx context.Context) ([]models.BookingDetails, error)

	DashboardStats(ctx context.Context) (*models.DashboardStats, error)

	// InTx runs fn inside one transaction. If fn returns an error nothing it
	// wrote is kept.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Ping() error
}

// Tx is the write side of a Store transaction. Lock* methods hold the row
// until the transaction ends.
type Tx interface {
	LockSeat(ctx context.Context, id int64) (*models.Seat, error)
	// LockSeats locks the seats in ascending id order and returns them in
	// that order. Missing ids are reported as ErrNotFound.
	LockSeats(ctx context.Context, ids ...int64) ([]models.Seat, error)
	SetSeatStatus(ctx context.Context, id int64, status models.SeatStatus) error

	LockBooking(ctx context.Context, id int64) (*models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, id int64) error
	UpdateBookingSeat(ctx context.Context, id, seatID int64) error

	InsertBus(ctx context.Context, bus *models.Bus) error
	LockBus(ctx context.Context, id int64) (*models.Bus, error)
	CountSchedulesForBus(ctx context.Context, busID int64) (int, error)
	DeleteBus(ctx context.Context, id int64) error

	InsertSchedule(ctx context.Context, schedule *models.Schedule) error
	LockSchedule(ctx context.Context, id int64) (*models.Schedule, error)
	// InsertSeats seeds seats 1..capacity as AVAILABLE
	InsertSeats(ctx context.Context, scheduleID int64, capacity int) error
	CountBookingsForSchedule(ctx context.Context, scheduleID int64) (int, error)
	// DeleteSchedule removes the schedule and its seats
	DeleteSchedule(ctx context.Context, id int64) error
}

// AdminUserStore holds admin console accounts
type AdminUserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	UpdateLastLogin(ctx context.Context, id int64) error
}
