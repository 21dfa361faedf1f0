package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// SeatHandler serves seat maps and admin seat holds
type SeatHandler struct {
	allocation *services.AllocationService
	logger     *logrus.Logger
}

// NewSeatHandler creates a new seat handler
func NewSeatHandler(allocation *services.AllocationService, logger *logrus.Logger) *SeatHandler {
	return &SeatHandler{allocation: allocation, logger: logger}
}

// ListSeats handles GET /api/seats?scheduleId=
func (h *SeatHandler) ListSeats(c *gin.Context) {
	scheduleID, ok := queryID(c, "scheduleId")
	if !ok {
		return
	}

	seats, err := h.allocation.ListSeats(c.Request.Context(), scheduleID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

// ReserveSeat handles PUT /api/admin/seats/:id/reserve
func (h *SeatHandler) ReserveSeat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	seat, err := h.allocation.ReserveSeat(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, seat)
}

// ReleaseSeat handles PUT /api/admin/seats/:id/available
func (h *SeatHandler) ReleaseSeat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	seat, err := h.allocation.ReleaseSeat(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, seat)
}
