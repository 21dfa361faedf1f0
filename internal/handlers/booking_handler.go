package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// BookingHandler serves passenger bookings and their admin management
type BookingHandler struct {
	allocation *services.AllocationService
	logger     *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(allocation *services.AllocationService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{allocation: allocation, logger: logger}
}

// CreateBooking handles POST /api/bookings?seatId=&passengerName=&phoneNumber=
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "seatId, passengerName and phoneNumber are required")
		return
	}

	booking, err := h.allocation.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": booking})
}

// SearchBooking handles GET /api/bookings/search?bookingCode=
func (h *BookingHandler) SearchBooking(c *gin.Context) {
	booking, err := h.allocation.FindByCode(c.Request.Context(), c.Query("bookingCode"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /api/admin/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.allocation.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking handles DELETE /api/admin/bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.allocation.CancelBooking(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// ChangeSeat handles PUT /api/admin/bookings/:id/change-seat
func (h *BookingHandler) ChangeSeat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ChangeSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "newSeatId is required")
		return
	}

	booking, err := h.allocation.ChangeSeat(c.Request.Context(), id, req.NewSeatID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// BookingBySeat handles GET /api/admin/bookings/by-seat/:seatId.
// The body is the bare booking id.
func (h *BookingHandler) BookingBySeat(c *gin.Context) {
	seatID, ok := pathID(c, "seatId")
	if !ok {
		return
	}

	bookingID, err := h.allocation.FindBySeat(c.Request.Context(), seatID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookingID)
}
