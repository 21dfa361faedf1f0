package models

import (
	"errors"
	"strings"
	"time"
)

// MaxSeatCapacity bounds the number of seats generated per schedule
const MaxSeatCapacity = 100

// Bus represents a bus operating a fixed route
type Bus struct {
	ID           int64     `json:"id" db:"id"`
	BusNumber    string    `json:"busNumber" db:"bus_number"`
	SeatCapacity int       `json:"seatCapacity" db:"seat_capacity"`
	BusType      string    `json:"busType" db:"bus_type"`
	RouteNumber  string    `json:"routeNumber" db:"route_number"`
	FromCity     string    `json:"fromCity" db:"from_city"`
	ToCity       string    `json:"toCity" db:"to_city"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Route returns the display route of the bus
func (b Bus) Route() string {
	return b.FromCity + " → " + b.ToCity
}

// CreateBusRequest represents the request to create a new bus
type CreateBusRequest struct {
	BusNumber    string `json:"busNumber" binding:"required"`
	SeatCapacity int    `json:"seatCapacity" binding:"required"`
	BusType      string `json:"busType" binding:"required"`
	RouteNumber  string `json:"routeNumber" binding:"required"`
	FromCity     string `json:"fromCity" binding:"required"`
	ToCity       string `json:"toCity" binding:"required"`
}

// Normalize trims surrounding whitespace from all text fields
func (req *CreateBusRequest) Normalize() {
	req.BusNumber = strings.TrimSpace(req.BusNumber)
	req.BusType = strings.TrimSpace(req.BusType)
	req.RouteNumber = strings.TrimSpace(req.RouteNumber)
	req.FromCity = strings.TrimSpace(req.FromCity)
	req.ToCity = strings.TrimSpace(req.ToCity)
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	if req.BusNumber == "" {
		return errors.New("busNumber is required")
	}
	if req.BusType == "" {
		return errors.New("busType is required")
	}
	if req.RouteNumber == "" {
		return errors.New("routeNumber is required")
	}
	if req.FromCity == "" || req.ToCity == "" {
		return errors.New("fromCity and toCity are required")
	}
	if req.SeatCapacity <= 0 || req.SeatCapacity > MaxSeatCapacity {
		return errors.New("seatCapacity must be between 1 and 100")
	}
	return nil
}

// ToBus builds the bus a valid request describes
func (req *CreateBusRequest) ToBus() *Bus {
	return &Bus{
		BusNumber:    req.BusNumber,
		SeatCapacity: req.SeatCapacity,
		BusType:      req.BusType,
		RouteNumber:  req.RouteNumber,
		FromCity:     req.FromCity,
		ToCity:       req.ToCity,
	}
}
