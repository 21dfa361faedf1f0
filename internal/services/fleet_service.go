package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/cache"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// FleetService manages buses and their schedules
type FleetService struct {
	store  database.Store
	cache  cache.ScheduleCache
	logger *logrus.Logger
}

// NewFleetService creates a new fleet service. A nil cache disables invalidation.
func NewFleetService(store database.Store, scheduleCache cache.ScheduleCache, logger *logrus.Logger) *FleetService {
	if scheduleCache == nil {
		scheduleCache = cache.NoopScheduleCache{}
	}
	return &FleetService{store: store, cache: scheduleCache, logger: logger}
}

// CreateBus registers a new bus
func (s *FleetService) CreateBus(ctx context.Context, req *models.CreateBusRequest) (*models.Bus, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	bus := req.ToBus()
	if err := s.store.InTx(ctx, func(tx database.Tx) error {
		return tx.InsertBus(ctx, bus)
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":     bus.ID,
		"bus_number": bus.BusNumber,
	}).Info("Bus created")
	return bus, nil
}

// DeleteBus removes a bus that no schedule references
func (s *FleetService) DeleteBus(ctx context.Context, busID int64) error {
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := tx.LockBus(ctx, busID); err != nil {
			return storeError(err, "bus", busID)
		}
		count, err := tx.CountSchedulesForBus(ctx, busID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: bus %d still has %d schedules", ErrConflict, busID, count)
		}
		return storeError(tx.DeleteBus(ctx, busID), "bus", busID)
	})
	if err != nil {
		return err
	}

	s.logger.WithField("bus_id", busID).Info("Bus deleted")
	return nil
}

// CreateSchedule schedules a bus on a date and seeds its seats
func (s *FleetService) CreateSchedule(ctx context.Context, busID int64, req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	schedule := req.ToSchedule(busID)
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		bus, err := tx.LockBus(ctx, busID)
		if err != nil {
			return storeError(err, "bus", busID)
		}
		if err := tx.InsertSchedule(ctx, schedule); err != nil {
			return err
		}
		schedule.Bus = bus
		return tx.InsertSeats(ctx, schedule.ID, bus.SeatCapacity)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, schedule.TravelDate)
	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"bus_id":      busID,
		"travel_date": schedule.TravelDate,
		"seats":       schedule.Bus.SeatCapacity,
	}).Info("Schedule created")
	return schedule, nil
}

// DeleteSchedule removes a schedule without bookings together with its seats
func (s *FleetService) DeleteSchedule(ctx context.Context, scheduleID int64) error {
	var travelDate string
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		schedule, err := tx.LockSchedule(ctx, scheduleID)
		if err != nil {
			return storeError(err, "schedule", scheduleID)
		}
		travelDate = schedule.TravelDate

		count, err := tx.CountBookingsForSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: schedule %d still has %d bookings", ErrConflict, scheduleID, count)
		}
		return storeError(tx.DeleteSchedule(ctx, scheduleID), "schedule", scheduleID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, travelDate)
	s.logger.WithField("schedule_id", scheduleID).Info("Schedule deleted")
	return nil
}

// DashboardStats counts buses, schedules, bookings and seats by status
func (s *FleetService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.store.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *FleetService) invalidate(ctx context.Context, date string) {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.WithError(err).WithField("date", date).Warn("Schedule cache invalidation failed")
	}
}
