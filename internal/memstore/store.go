// Package memstore keeps buses, schedules, seats and bookings in process
// memory. It implements database.Store for development and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// Store is an in-memory database.Store. A transaction holds the store-wide
// write lock from start to end, so transactions are serial.
type Store struct {
	mu sync.RWMutex

	lastID    int64
	buses     map[int64]models.Bus
	schedules map[int64]models.Schedule
	seats     map[int64]models.Seat
	bookings  map[int64]models.Booking

	bookingBySeat map[int64]int64
	bookingByCode map[string]int64

	now func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		buses:         make(map[int64]models.Bus),
		schedules:     make(map[int64]models.Schedule),
		seats:         make(map[int64]models.Seat),
		bookings:      make(map[int64]models.Booking),
		bookingBySeat: make(map[int64]int64),
		bookingByCode: make(map[string]int64),
		now:           time.Now,
	}
}

var _ database.Store = (*Store)(nil)

// Ping always succeeds
func (s *Store) Ping() error {
	return nil
}

// InTx runs fn while holding the write lock. Writes made by fn are undone
// when it returns an error.
func (s *Store) InTx(ctx context.Context, fn func(tx database.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) ListBuses(ctx context.Context) ([]models.Bus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	buses := make([]models.Bus, 0, len(s.buses))
	for _, bus := range s.buses {
		buses = append(buses, bus)
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i].ID < buses[j].ID })
	return buses, nil
}

func (s *Store) GetBus(ctx context.Context, id int64) (*models.Bus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	bus, ok := s.buses[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &bus, nil
}

// withBus returns a copy of schedule carrying a copy of its bus
func (s *Store) withBus(schedule models.Schedule) models.Schedule {
	if bus, ok := s.buses[schedule.BusID]; ok {
		schedule.Bus = &bus
	}
	return schedule
}

func (s *Store) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make([]models.Schedule, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		schedules = append(schedules, s.withBus(schedule))
	}
	sort.Slice(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if a.TravelDate != b.TravelDate {
			return a.TravelDate < b.TravelDate
		}
		if a.DepartureTime != b.DepartureTime {
			return a.DepartureTime < b.DepartureTime
		}
		return a.ID < b.ID
	})
	return schedules, nil
}

func (s *Store) ListSchedulesByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := []models.Schedule{}
	for _, schedule := range s.schedules {
		if schedule.TravelDate == date {
			schedules = append(schedules, s.withBus(schedule))
		}
	}
	// Times are stored as zero-padded HH:MM, which sorts lexically
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].DepartureTime != schedules[j].DepartureTime {
			return schedules[i].DepartureTime < schedules[j].DepartureTime
		}
		return schedules[i].ID < schedules[j].ID
	})
	return schedules, nil
}

func (s *Store) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	schedule = s.withBus(schedule)
	return &schedule, nil
}

func (s *Store) ListSeats(ctx context.Context, scheduleID int64) ([]models.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seats := []models.Seat{}
	for _, seat := range s.seats {
		if seat.ScheduleID == scheduleID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].SeatNumber < seats[j].SeatNumber })
	return seats, nil
}

func (s *Store) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seat, ok := s.seats[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &seat, nil
}

func (s *Store) SeatSummaries(ctx context.Context) (map[int64]models.SeatSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make(map[int64]models.SeatSummary)
	for _, seat := range s.seats {
		summary := summaries[seat.ScheduleID]
		summary.Add(seat.Status)
		summaries[seat.ScheduleID] = summary
	}
	return summaries, nil
}

// details joins a booking with its seat, schedule and bus. Caller holds the lock.
func (s *Store) details(booking models.Booking) models.BookingDetails {
	d := models.BookingDetails{
		ID:            booking.ID,
		BookingCode:   booking.BookingCode,
		PassengerName: booking.PassengerName,
		PhoneNumber:   booking.PhoneNumber,
		SeatID:        booking.SeatID,
		CreatedAt:     booking.CreatedAt,
	}
	seat := s.seats[booking.SeatID]
	d.SeatNumber = seat.SeatNumber
	d.ScheduleID = seat.ScheduleID

	schedule := s.schedules[seat.ScheduleID]
	d.TravelDate = schedule.TravelDate
	d.DepartureTime = schedule.DepartureTime
	d.ArrivalTime = schedule.ArrivalTime

	bus := s.buses[schedule.BusID]
	d.BusNumber = bus.BusNumber
	d.Route = bus.Route()
	return d
}

func (s *Store) GetBookingDetails(ctx context.Context, id int64) (*models.BookingDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	d := s.details(booking)
	return &d, nil
}

func (s *Store) FindBookingByCode(ctx context.Context, code string) (*models.BookingDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bookingByCode[code]
	if !ok {
		return nil, database.ErrNotFound
	}
	d := s.details(s.bookings[id])
	return &d, nil
}

func (s *Store) FindBookingIDBySeat(ctx context.Context, seatID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bookingBySeat[seatID]
	if !ok {
		return 0, database.ErrNotFound
	}
	return id, nil
}

func (s *Store) ListBookingDetails(ctx context.Context) ([]models.BookingDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.BookingDetails, 0, len(s.bookings))
	for _, booking := range s.bookings {
		list = append(list, s.details(booking))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *Store) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.DashboardStats{
		TotalBuses:     len(s.buses),
		TotalSchedules: len(s.schedules),
		TotalBookings:  len(s.bookings),
	}
	for _, seat := range s.seats {
		stats.SeatSummary.Add(seat.Status)
	}
	return stats, nil
}
