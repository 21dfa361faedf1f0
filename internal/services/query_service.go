package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/cache"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// QueryService serves the read side: trip search and admin listings
type QueryService struct {
	store  database.Store
	cache  cache.ScheduleCache
	logger *logrus.Logger
}

// NewQueryService creates a new query service. A nil cache disables caching.
func NewQueryService(store database.Store, scheduleCache cache.ScheduleCache, logger *logrus.Logger) *QueryService {
	if scheduleCache == nil {
		scheduleCache = cache.NoopScheduleCache{}
	}
	return &QueryService{store: store, cache: scheduleCache, logger: logger}
}

// SchedulesByDate returns the schedules of one travel date by departure time.
// Cache failures fall back to the store. A miss that races a fleet write can
// cache the list read before the write committed; the cache TTL bounds how
// long that entry is served.
func (s *QueryService) SchedulesByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, validationError(err)
	}

	schedules, err := s.cache.GetSchedules(ctx, date)
	switch {
	case err == nil:
		scheduleCacheLookups.WithLabelValues("hit").Inc()
		return schedules, nil
	case errors.Is(err, cache.ErrCacheMiss):
		scheduleCacheLookups.WithLabelValues("miss").Inc()
	default:
		scheduleCacheLookups.WithLabelValues("error").Inc()
		s.logger.WithError(err).WithField("date", date).Warn("Schedule cache read failed")
	}

	schedules, err = s.store.ListSchedulesByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	if err := s.cache.SetSchedules(ctx, date, schedules); err != nil {
		s.logger.WithError(err).WithField("date", date).Warn("Schedule cache write failed")
	}
	return schedules, nil
}

// ListBuses returns all buses by id
func (s *QueryService) ListBuses(ctx context.Context) ([]models.Bus, error) {
	buses, err := s.store.ListBuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	return buses, nil
}

// ListSchedules returns every schedule with its bus and seat counts
func (s *QueryService) ListSchedules(ctx context.Context) ([]models.ScheduleWithSummary, error) {
	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	summaries, err := s.store.SeatSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise seats: %w", err)
	}

	result := make([]models.ScheduleWithSummary, 0, len(schedules))
	for _, schedule := range schedules {
		result = append(result, models.ScheduleWithSummary{
			Schedule: schedule,
			Seats:    summaries[schedule.ID],
		})
	}
	return result, nil
}

// GetSchedule returns one schedule with its bus
func (s *QueryService) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, storeError(err, "schedule", id)
	}
	return schedule, nil
}
