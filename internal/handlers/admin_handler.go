package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// AdminHandler serves the admin dashboard
type AdminHandler struct {
	fleet  *services.FleetService
	logger *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(fleet *services.FleetService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{fleet: fleet, logger: logger}
}

// DashboardStats handles GET /api/admin/dashboard/stats
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.fleet.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
