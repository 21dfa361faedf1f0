package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// memTx applies writes directly to the store and records how to undo them
type memTx struct {
	store *Store
	undo  []func()
}

var _ database.Tx = (*memTx)(nil)

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) LockSeat(ctx context.Context, id int64) (*models.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seat, ok := t.store.seats[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &seat, nil
}

func (t *memTx) LockSeats(ctx context.Context, ids ...int64) ([]models.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(ids))
	seats := make([]models.Seat, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seat, ok := t.store.seats[id]
		if !ok {
			return nil, database.ErrNotFound
		}
		seats = append(seats, seat)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

func (t *memTx) SetSeatStatus(ctx context.Context, id int64, status models.SeatStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("invalid seat status %q", status)
	}
	s := t.store
	seat, ok := s.seats[id]
	if !ok {
		return database.ErrNotFound
	}
	prev := seat
	seat.Status = status
	seat.UpdatedAt = s.now()
	s.seats[id] = seat
	t.undo = append(t.undo, func() { s.seats[id] = prev })
	return nil
}

func (t *memTx) LockBooking(ctx context.Context, id int64) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	booking, ok := t.store.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &booking, nil
}

func (t *memTx) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	if _, ok := s.seats[booking.SeatID]; !ok {
		return database.ErrNotFound
	}
	if _, taken := s.bookingBySeat[booking.SeatID]; taken {
		return database.ErrSeatTaken
	}

	booking.ID = s.nextID()
	booking.CreatedAt = s.now()
	b := *booking
	s.bookings[b.ID] = b
	s.bookingBySeat[b.SeatID] = b.ID
	s.bookingByCode[b.BookingCode] = b.ID
	t.undo = append(t.undo, func() {
		delete(s.bookings, b.ID)
		delete(s.bookingBySeat, b.SeatID)
		delete(s.bookingByCode, b.BookingCode)
	})
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	b, ok := s.bookings[id]
	if !ok {
		return database.ErrNotFound
	}
	delete(s.bookings, id)
	delete(s.bookingBySeat, b.SeatID)
	delete(s.bookingByCode, b.BookingCode)
	t.undo = append(t.undo, func() {
		s.bookings[id] = b
		s.bookingBySeat[b.SeatID] = id
		s.bookingByCode[b.BookingCode] = id
	})
	return nil
}

func (t *memTx) UpdateBookingSeat(ctx context.Context, id, seatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	b, ok := s.bookings[id]
	if !ok {
		return database.ErrNotFound
	}
	if other, taken := s.bookingBySeat[seatID]; taken && other != id {
		return database.ErrSeatTaken
	}
	prev := b
	delete(s.bookingBySeat, b.SeatID)
	b.SeatID = seatID
	s.bookings[id] = b
	s.bookingBySeat[seatID] = id
	t.undo = append(t.undo, func() {
		delete(s.bookingBySeat, seatID)
		s.bookings[id] = prev
		s.bookingBySeat[prev.SeatID] = id
	})
	return nil
}

func (t *memTx) InsertBus(ctx context.Context, bus *models.Bus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	bus.ID = s.nextID()
	bus.CreatedAt = s.now()
	s.buses[bus.ID] = *bus
	id := bus.ID
	t.undo = append(t.undo, func() { delete(s.buses, id) })
	return nil
}

func (t *memTx) LockBus(ctx context.Context, id int64) (*models.Bus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bus, ok := t.store.buses[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &bus, nil
}

func (t *memTx) CountSchedulesForBus(ctx context.Context, busID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	for _, schedule := range t.store.schedules {
		if schedule.BusID == busID {
			count++
		}
	}
	return count, nil
}

func (t *memTx) DeleteBus(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	bus, ok := s.buses[id]
	if !ok {
		return database.ErrNotFound
	}
	delete(s.buses, id)
	t.undo = append(t.undo, func() { s.buses[id] = bus })
	return nil
}

func (t *memTx) InsertSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	if _, ok := s.buses[schedule.BusID]; !ok {
		return database.ErrNotFound
	}
	schedule.ID = s.nextID()
	schedule.CreatedAt = s.now()
	stored := *schedule
	stored.Bus = nil
	s.schedules[stored.ID] = stored
	id := stored.ID
	t.undo = append(t.undo, func() { delete(s.schedules, id) })
	return nil
}

func (t *memTx) LockSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schedule, ok := t.store.schedules[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &schedule, nil
}

func (t *memTx) InsertSeats(ctx context.Context, scheduleID int64, capacity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	now := s.now()
	ids := make([]int64, 0, capacity)
	for n := 1; n <= capacity; n++ {
		seat := models.Seat{
			ID:         s.nextID(),
			ScheduleID: scheduleID,
			SeatNumber: n,
			Status:     models.SeatStatusAvailable,
			UpdatedAt:  now,
		}
		s.seats[seat.ID] = seat
		ids = append(ids, seat.ID)
	}
	t.undo = append(t.undo, func() {
		for _, id := range ids {
			delete(s.seats, id)
		}
	})
	return nil
}

func (t *memTx) CountBookingsForSchedule(ctx context.Context, scheduleID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s := t.store
	count := 0
	for _, booking := range s.bookings {
		if s.seats[booking.SeatID].ScheduleID == scheduleID {
			count++
		}
	}
	return count, nil
}

func (t *memTx) DeleteSchedule(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.store
	schedule, ok := s.schedules[id]
	if !ok {
		return database.ErrNotFound
	}
	removed := []models.Seat{}
	for seatID, seat := range s.seats {
		if seat.ScheduleID == id {
			removed = append(removed, seat)
			delete(s.seats, seatID)
		}
	}
	delete(s.schedules, id)
	t.undo = append(t.undo, func() {
		s.schedules[id] = schedule
		for _, seat := range removed {
			s.seats[seat.ID] = seat
		}
	})
	return nil
}
