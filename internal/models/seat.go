package models

import (
	"fmt"
	"strings"
	"time"
)

// SeatStatus is the allocation state of a seat on a scheduled trip
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusReserved  SeatStatus = "RESERVED"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// ParseSeatStatus parses a status string case-insensitively
func ParseSeatStatus(s string) (SeatStatus, error) {
	switch SeatStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case SeatStatusAvailable:
		return SeatStatusAvailable, nil
	case SeatStatusReserved:
		return SeatStatusReserved, nil
	case SeatStatusBooked:
		return SeatStatusBooked, nil
	default:
		return "", fmt.Errorf("unknown seat status %q", s)
	}
}

// Valid reports whether the status is one of the three known states
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusReserved, SeatStatusBooked:
		return true
	}
	return false
}

// Scan implements sql.Scanner. Unknown stored statuses are an error.
func (s *SeatStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into SeatStatus", src)
	}
	status, err := ParseSeatStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// SeatTrigger names what is asking for a status change
type SeatTrigger string

const (
	TriggerBook      SeatTrigger = "book"
	TriggerCancel    SeatTrigger = "cancel"
	TriggerReserve   SeatTrigger = "reserve"
	TriggerUnreserve SeatTrigger = "unreserve"
	// TriggerChangeFrom / TriggerChangeTo are the two halves of a seat change
	TriggerChangeFrom SeatTrigger = "change_from"
	TriggerChangeTo   SeatTrigger = "change_to"
)

// CanTransition reports whether trigger may move a seat from one status to another.
// Every (from, trigger) pair not listed here is rejected.
func CanTransition(from, to SeatStatus, trigger SeatTrigger) bool {
	switch from {
	case SeatStatusAvailable:
		switch to {
		case SeatStatusBooked:
			return trigger == TriggerBook || trigger == TriggerChangeTo
		case SeatStatusReserved:
			return trigger == TriggerReserve
		}
	case SeatStatusReserved:
		return to == SeatStatusAvailable && trigger == TriggerUnreserve
	case SeatStatusBooked:
		return to == SeatStatusAvailable && (trigger == TriggerCancel || trigger == TriggerChangeFrom)
	}
	return false
}

// AdminTrigger maps an admin status request onto its trigger.
// Only AVAILABLE and RESERVED may be requested directly.
func AdminTrigger(to SeatStatus) (SeatTrigger, bool) {
	switch to {
	case SeatStatusReserved:
		return TriggerReserve, true
	case SeatStatusAvailable:
		return TriggerUnreserve, true
	}
	return "", false
}

// Seat is one seat of a scheduled trip
type Seat struct {
	ID         int64      `json:"id" db:"id"`
	ScheduleID int64      `json:"scheduleId" db:"schedule_id"`
	SeatNumber int        `json:"seatNumber" db:"seat_number"`
	Status     SeatStatus `json:"status" db:"status"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// SeatSummary counts seats by status for one schedule
type SeatSummary struct {
	TotalSeats     int `json:"totalSeats" db:"total_seats"`
	AvailableSeats int `json:"availableSeats" db:"available_seats"`
	ReservedSeats  int `json:"reservedSeats" db:"reserved_seats"`
	BookedSeats    int `json:"bookedSeats" db:"booked_seats"`
}

// Add counts one seat into the summary
func (s *SeatSummary) Add(status SeatStatus) {
	s.TotalSeats++
	switch status {
	case SeatStatusAvailable:
		s.AvailableSeats++
	case SeatStatusReserved:
		s.ReservedSeats++
	case SeatStatusBooked:
		s.BookedSeats++
	}
}
