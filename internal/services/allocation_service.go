package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/pkg/events"
	"github.com/smarttransit/seat-booking-backend/pkg/validator"
)

// AllocationService owns the seat state machine. Every mutation runs in one
// store transaction that locks the booking first and then its seats.
type AllocationService struct {
	store     database.Store
	publisher events.Publisher
	phones    *validator.PhoneValidator
	logger    *logrus.Logger
	newCode   func() string
}

// NewAllocationService creates a new allocation service
func NewAllocationService(store database.Store, publisher events.Publisher, logger *logrus.Logger) *AllocationService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &AllocationService{
		store:     store,
		publisher: publisher,
		phones:    validator.NewPhoneValidator(),
		logger:    logger,
		newCode:   func() string { return uuid.New().String() },
	}
}

// ListSeats returns the seats of a schedule by seat number
func (s *AllocationService) ListSeats(ctx context.Context, scheduleID int64) ([]models.Seat, error) {
	if _, err := s.store.GetSchedule(ctx, scheduleID); err != nil {
		return nil, storeError(err, "schedule", scheduleID)
	}
	seats, err := s.store.ListSeats(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

// CreateBooking books an AVAILABLE seat for a passenger
func (s *AllocationService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (details *models.BookingDetails, err error) {
	defer func() { recordAllocation("create_booking", err) }()

	if req.SeatID <= 0 {
		return nil, validationError(errors.New("seatId must be a positive integer"))
	}
	name, err := validator.ValidatePassengerName(req.PassengerName)
	if err != nil {
		return nil, validationError(err)
	}
	phone, err := s.phones.Validate(req.PhoneNumber)
	if err != nil {
		return nil, validationError(err)
	}

	booking := &models.Booking{
		SeatID:        req.SeatID,
		BookingCode:   s.newCode(),
		PassengerName: name,
		PhoneNumber:   phone,
	}
	var scheduleID int64

	err = s.store.InTx(ctx, func(tx database.Tx) error {
		seat, err := tx.LockSeat(ctx, req.SeatID)
		if err != nil {
			return storeError(err, "seat", req.SeatID)
		}
		if !models.CanTransition(seat.Status, models.SeatStatusBooked, models.TriggerBook) {
			return fmt.Errorf("%w: seat %d is %s", ErrSeatUnavailable, seat.SeatNumber, seat.Status)
		}
		scheduleID = seat.ScheduleID

		if err := tx.InsertBooking(ctx, booking); err != nil {
			return storeError(err, "seat", req.SeatID)
		}
		return tx.SetSeatStatus(ctx, seat.ID, models.SeatStatusBooked)
	})
	if err != nil {
		s.logger.WithError(err).WithField("seat_id", req.SeatID).Info("Booking rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"seat_id":     booking.SeatID,
		"schedule_id": scheduleID,
	}).Info("Booking created")

	s.publish(ctx, &events.BookingEvent{
		Type:        events.BookingCreated,
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		ScheduleID:  scheduleID,
		SeatID:      booking.SeatID,
	})

	details, err = s.store.GetBookingDetails(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return details, nil
}

// CancelBooking deletes a booking and frees its seat
func (s *AllocationService) CancelBooking(ctx context.Context, bookingID int64) (err error) {
	defer func() { recordAllocation("cancel_booking", err) }()

	var booking *models.Booking
	var seat *models.Seat

	err = s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		booking, err = tx.LockBooking(ctx, bookingID)
		if err != nil {
			return storeError(err, "booking", bookingID)
		}
		seat, err = tx.LockSeat(ctx, booking.SeatID)
		if err != nil {
			return fmt.Errorf("failed to lock seat %d of booking %d: %w", booking.SeatID, bookingID, err)
		}
		if !models.CanTransition(seat.Status, models.SeatStatusAvailable, models.TriggerCancel) {
			return fmt.Errorf("seat %d of booking %d is %s", seat.ID, bookingID, seat.Status)
		}

		if err := tx.DeleteBooking(ctx, bookingID); err != nil {
			return storeError(err, "booking", bookingID)
		}
		return tx.SetSeatStatus(ctx, seat.ID, models.SeatStatusAvailable)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  bookingID,
		"seat_id":     seat.ID,
		"schedule_id": seat.ScheduleID,
	}).Info("Booking cancelled")

	s.publish(ctx, &events.BookingEvent{
		Type:        events.BookingCancelled,
		BookingID:   bookingID,
		BookingCode: booking.BookingCode,
		ScheduleID:  seat.ScheduleID,
		SeatID:      seat.ID,
	})
	return nil
}

// ChangeSeat moves a booking to another AVAILABLE seat on the same schedule.
// The booking keeps its id and code.
func (s *AllocationService) ChangeSeat(ctx context.Context, bookingID, newSeatID int64) (details *models.BookingDetails, err error) {
	defer func() { recordAllocation("change_seat", err) }()

	if newSeatID <= 0 {
		return nil, validationError(errors.New("newSeatId must be a positive integer"))
	}

	var booking *models.Booking
	var oldSeat, newSeat models.Seat

	err = s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		booking, err = tx.LockBooking(ctx, bookingID)
		if err != nil {
			return storeError(err, "booking", bookingID)
		}
		if booking.SeatID == newSeatID {
			return fmt.Errorf("%w: booking %d already holds seat %d", ErrInvalidTransition, bookingID, newSeatID)
		}

		seats, err := tx.LockSeats(ctx, booking.SeatID, newSeatID)
		if err != nil {
			return storeError(err, "seat", newSeatID)
		}
		for _, seat := range seats {
			if seat.ID == booking.SeatID {
				oldSeat = seat
			} else {
				newSeat = seat
			}
		}

		if oldSeat.ScheduleID != newSeat.ScheduleID {
			return validationError(errors.New("new seat belongs to a different schedule"))
		}
		if !models.CanTransition(newSeat.Status, models.SeatStatusBooked, models.TriggerChangeTo) {
			return fmt.Errorf("%w: seat %d is %s", ErrSeatUnavailable, newSeat.SeatNumber, newSeat.Status)
		}
		if !models.CanTransition(oldSeat.Status, models.SeatStatusAvailable, models.TriggerChangeFrom) {
			return fmt.Errorf("seat %d of booking %d is %s", oldSeat.ID, bookingID, oldSeat.Status)
		}

		if err := tx.UpdateBookingSeat(ctx, bookingID, newSeat.ID); err != nil {
			return storeError(err, "booking", bookingID)
		}
		if err := tx.SetSeatStatus(ctx, oldSeat.ID, models.SeatStatusAvailable); err != nil {
			return err
		}
		return tx.SetSeatStatus(ctx, newSeat.ID, models.SeatStatusBooked)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"from_seat_id": oldSeat.ID,
		"seat_id":      newSeat.ID,
		"schedule_id":  newSeat.ScheduleID,
	}).Info("Booking moved to another seat")

	s.publish(ctx, &events.BookingEvent{
		Type:           events.BookingSeatChanged,
		BookingID:      bookingID,
		BookingCode:    booking.BookingCode,
		ScheduleID:     newSeat.ScheduleID,
		SeatID:         newSeat.ID,
		PreviousSeatID: oldSeat.ID,
	})

	details, err = s.store.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return details, nil
}

// SetSeatStatus applies an admin status change. Only AVAILABLE and RESERVED
// may be requested and only between each other.
func (s *AllocationService) SetSeatStatus(ctx context.Context, seatID int64, status models.SeatStatus) (seat *models.Seat, err error) {
	defer func() { recordAllocation("set_seat_status", err) }()

	trigger, ok := models.AdminTrigger(status)
	if !ok {
		return nil, fmt.Errorf("%w: seats cannot be set to %s directly", ErrInvalidTransition, status)
	}

	err = s.store.InTx(ctx, func(tx database.Tx) error {
		current, err := tx.LockSeat(ctx, seatID)
		if err != nil {
			return storeError(err, "seat", seatID)
		}
		if !models.CanTransition(current.Status, status, trigger) {
			return fmt.Errorf("%w: seat %d is %s", ErrInvalidTransition, current.SeatNumber, current.Status)
		}
		return tx.SetSeatStatus(ctx, seatID, status)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"seat_id": seatID,
		"status":  status,
	}).Info("Seat status changed")

	seat, err = s.store.GetSeat(ctx, seatID)
	if err != nil {
		return nil, storeError(err, "seat", seatID)
	}
	return seat, nil
}

// ReserveSeat holds an AVAILABLE seat back from booking
func (s *AllocationService) ReserveSeat(ctx context.Context, seatID int64) (*models.Seat, error) {
	return s.SetSeatStatus(ctx, seatID, models.SeatStatusReserved)
}

// ReleaseSeat returns a RESERVED seat to AVAILABLE
func (s *AllocationService) ReleaseSeat(ctx context.Context, seatID int64) (*models.Seat, error) {
	return s.SetSeatStatus(ctx, seatID, models.SeatStatusAvailable)
}

// FindByCode looks a booking up by its exact code
func (s *AllocationService) FindByCode(ctx context.Context, code string) (*models.BookingDetails, error) {
	if strings.TrimSpace(code) == "" {
		return nil, validationError(errors.New("bookingCode is required"))
	}
	details, err := s.store.FindBookingByCode(ctx, code)
	if err != nil {
		return nil, storeError(err, "booking", code)
	}
	return details, nil
}

// FindBySeat returns the id of the booking holding a seat
func (s *AllocationService) FindBySeat(ctx context.Context, seatID int64) (int64, error) {
	id, err := s.store.FindBookingIDBySeat(ctx, seatID)
	if err != nil {
		return 0, storeError(err, "booking for seat", seatID)
	}
	return id, nil
}

// GetSeatByBooking returns the id of the seat a booking holds
func (s *AllocationService) GetSeatByBooking(ctx context.Context, bookingID int64) (int64, error) {
	details, err := s.store.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return 0, storeError(err, "booking", bookingID)
	}
	return details.SeatID, nil
}

// ListBookings returns all bookings with trip details, newest first
func (s *AllocationService) ListBookings(ctx context.Context) ([]models.BookingDetails, error) {
	bookings, err := s.store.ListBookingDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// publish sends an event after commit. Failures are logged and counted only.
func (s *AllocationService) publish(ctx context.Context, event *events.BookingEvent) {
	if err := s.publisher.PublishBooking(context.WithoutCancel(ctx), event); err != nil {
		eventPublishErrors.Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_id": event.BookingID,
			"event_type": event.Type,
		}).Warn("Failed to publish booking event")
	}
}
