package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/cache"
	"github.com/smarttransit/seat-booking-backend/internal/memstore"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/pkg/events"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBooking(ctx context.Context, event *events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.BookingEventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// fakeScheduleCache is a map-backed cache.ScheduleCache
type fakeScheduleCache struct {
	mu          sync.Mutex
	entries     map[string][]models.Schedule
	invalidated []string
	err         error
}

func newFakeScheduleCache() *fakeScheduleCache {
	return &fakeScheduleCache{entries: make(map[string][]models.Schedule)}
}

func (c *fakeScheduleCache) GetSchedules(ctx context.Context, date string) ([]models.Schedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	schedules, ok := c.entries[date]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return schedules, nil
}

func (c *fakeScheduleCache) SetSchedules(ctx context.Context, date string, schedules []models.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[date] = schedules
	return nil
}

func (c *fakeScheduleCache) Invalidate(ctx context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date)
	delete(c.entries, date)
	return nil
}

var errCacheDown = errors.New("redis: connection refused")

// testEnv wires the services over one in-memory store
type testEnv struct {
	store      *memstore.Store
	publisher  *recordingPublisher
	cache      *fakeScheduleCache
	allocation *AllocationService
	fleet      *FleetService
	query      *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	publisher := &recordingPublisher{}
	scheduleCache := newFakeScheduleCache()
	logger := testLogger()
	return &testEnv{
		store:      store,
		publisher:  publisher,
		cache:      scheduleCache,
		allocation: NewAllocationService(store, publisher, logger),
		fleet:      NewFleetService(store, scheduleCache, logger),
		query:      NewQueryService(store, scheduleCache, logger),
	}
}

// createSchedule adds a bus with capacity seats and schedules it on date
func (e *testEnv) createSchedule(t *testing.T, date, departure string, capacity int) *models.Schedule {
	t.Helper()
	ctx := context.Background()
	bus, err := e.fleet.CreateBus(ctx, &models.CreateBusRequest{
		BusNumber:    "NB-1234",
		SeatCapacity: capacity,
		BusType:      "Normal",
		RouteNumber:  "1",
		FromCity:     "Colombo",
		ToCity:       "Kandy",
	})
	require.NoError(t, err)

	schedule, err := e.fleet.CreateSchedule(ctx, bus.ID, &models.CreateScheduleRequest{
		TravelDate:    date,
		DepartureTime: departure,
		ArrivalTime:   "23:30",
	})
	require.NoError(t, err)
	return schedule
}

// seatByNumber returns the seat with number n of a schedule
func (e *testEnv) seatByNumber(t *testing.T, scheduleID int64, n int) models.Seat {
	t.Helper()
	seats, err := e.store.ListSeats(context.Background(), scheduleID)
	require.NoError(t, err)
	for _, seat := range seats {
		if seat.SeatNumber == n {
			return seat
		}
	}
	t.Fatalf("seat %d not found on schedule %d", n, scheduleID)
	return models.Seat{}
}

// requireSeatInvariants checks BOOKED iff exactly one booking holds the seat
func (e *testEnv) requireSeatInvariants(t *testing.T, scheduleID int64) {
	t.Helper()
	ctx := context.Background()
	seats, err := e.store.ListSeats(ctx, scheduleID)
	require.NoError(t, err)

	bookings, err := e.store.ListBookingDetails(ctx)
	require.NoError(t, err)
	holders := make(map[int64]int)
	for _, b := range bookings {
		holders[b.SeatID]++
	}

	for _, seat := range seats {
		if seat.Status == models.SeatStatusBooked {
			require.Equal(t, 1, holders[seat.ID], "booked seat %d must have exactly one booking", seat.SeatNumber)
		} else {
			require.Zero(t, holders[seat.ID], "%s seat %d must have no booking", seat.Status, seat.SeatNumber)
		}
	}
}

func bookingRequest(seatID int64) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		SeatID:        seatID,
		PassengerName: "Jane Doe",
		PhoneNumber:   "0712345678",
	}
}
