package models

import (
	"time"
)

// Booking binds one passenger to exactly one seat
type Booking struct {
	ID            int64     `json:"id" db:"id"`
	SeatID        int64     `json:"seatId" db:"seat_id"`
	BookingCode   string    `json:"bookingCode" db:"booking_code"`
	PassengerName string    `json:"passengerName" db:"passenger_name"`
	PhoneNumber   string    `json:"phoneNumber" db:"phone_number"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// BookingDetails is a booking joined with its seat, schedule and bus.
// It is the shape the confirmation, search and admin screens read.
type BookingDetails struct {
	ID            int64     `json:"id" db:"id"`
	BookingCode   string    `json:"bookingCode" db:"booking_code"`
	PassengerName string    `json:"passengerName" db:"passenger_name"`
	PhoneNumber   string    `json:"phoneNumber" db:"phone_number"`
	SeatID        int64     `json:"seatId" db:"seat_id"`
	SeatNumber    int       `json:"seatNumber" db:"seat_number"`
	ScheduleID    int64     `json:"scheduleId" db:"schedule_id"`
	BusNumber     string    `json:"busNumber" db:"bus_number"`
	Route         string    `json:"route" db:"route"`
	TravelDate    string    `json:"travelDate" db:"travel_date"`
	DepartureTime string    `json:"departureTime" db:"departure_time"`
	ArrivalTime   string    `json:"arrivalTime" db:"arrival_time"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// CreateBookingRequest carries the passenger details of a booking.
// The browser client sends these as query parameters.
type CreateBookingRequest struct {
	SeatID        int64  `form:"seatId" json:"seatId" binding:"required"`
	PassengerName string `form:"passengerName" json:"passengerName" binding:"required"`
	PhoneNumber   string `form:"phoneNumber" json:"phoneNumber" binding:"required"`
}

// ChangeSeatRequest moves a booking to another seat on the same schedule
type ChangeSeatRequest struct {
	NewSeatID int64 `json:"newSeatId" binding:"required"`
}

// DashboardStats summarises the fleet for the admin dashboard
type DashboardStats struct {
	TotalBuses     int `json:"totalBuses" db:"total_buses"`
	TotalSchedules int `json:"totalSchedules" db:"total_schedules"`
	TotalBookings  int `json:"totalBookings" db:"total_bookings"`
	SeatSummary
}
