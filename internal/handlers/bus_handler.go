package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// BusHandler handles admin bus management
type BusHandler struct {
	fleet  *services.FleetService
	query  *services.QueryService
	logger *logrus.Logger
}

// NewBusHandler creates a new bus handler
func NewBusHandler(fleet *services.FleetService, query *services.QueryService, logger *logrus.Logger) *BusHandler {
	return &BusHandler{fleet: fleet, query: query, logger: logger}
}

// ListBuses handles GET /api/admin/buses
func (h *BusHandler) ListBuses(c *gin.Context) {
	buses, err := h.query.ListBuses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

// CreateBus handles POST /api/admin/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	bus, err := h.fleet.CreateBus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, bus)
}

// DeleteBus handles DELETE /api/admin/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.fleet.DeleteBus(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted successfully"})
}
