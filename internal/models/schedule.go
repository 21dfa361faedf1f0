package models

import (
	"errors"
	"time"
)

const (
	// DateLayout is the wire format of travel dates
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of departure and arrival times
	TimeLayout = "15:04"
)

// Schedule is one dated trip of a bus. It owns Bus.SeatCapacity seats.
type Schedule struct {
	ID            int64     `json:"id" db:"id"`
	BusID         int64     `json:"busId" db:"bus_id"`
	TravelDate    string    `json:"travelDate" db:"travel_date"`
	DepartureTime string    `json:"departureTime" db:"departure_time"`
	ArrivalTime   string    `json:"arrivalTime" db:"arrival_time"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	Bus           *Bus      `json:"bus,omitempty" db:"-"`
}

// ScheduleWithSummary is a schedule plus its seat counts for the admin console
type ScheduleWithSummary struct {
	Schedule
	Seats SeatSummary `json:"seats"`
}

// CreateScheduleRequest represents the request to schedule a bus on a date
type CreateScheduleRequest struct {
	TravelDate    string `json:"travelDate" binding:"required"`
	DepartureTime string `json:"departureTime" binding:"required"`
	ArrivalTime   string `json:"arrivalTime" binding:"required"`
}

// Validate validates date and time formats and rewrites them in canonical
// form, so "9:05" becomes "09:05"
func (req *CreateScheduleRequest) Validate() error {
	date, err := time.Parse(DateLayout, req.TravelDate)
	if err != nil {
		return errors.New("invalid travelDate format. Use YYYY-MM-DD")
	}
	departure, err := time.Parse(TimeLayout, req.DepartureTime)
	if err != nil {
		return errors.New("invalid departureTime format. Use HH:MM")
	}
	arrival, err := time.Parse(TimeLayout, req.ArrivalTime)
	if err != nil {
		return errors.New("invalid arrivalTime format. Use HH:MM")
	}

	req.TravelDate = date.Format(DateLayout)
	req.DepartureTime = departure.Format(TimeLayout)
	req.ArrivalTime = arrival.Format(TimeLayout)
	return nil
}

// ToSchedule builds the schedule a valid request describes
func (req *CreateScheduleRequest) ToSchedule(busID int64) *Schedule {
	return &Schedule{
		BusID:         busID,
		TravelDate:    req.TravelDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
	}
}

// ValidateDate checks a YYYY-MM-DD travel date
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errors.New("invalid date format. Use YYYY-MM-DD")
	}
	return nil
}
