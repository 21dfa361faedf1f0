package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// ScheduleHandler serves trip search and admin schedule management
type ScheduleHandler struct {
	fleet  *services.FleetService
	query  *services.QueryService
	logger *logrus.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(fleet *services.FleetService, query *services.QueryService, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{fleet: fleet, query: query, logger: logger}
}

// SchedulesByDate handles GET /api/schedules/by-date?date=YYYY-MM-DD
func (h *ScheduleHandler) SchedulesByDate(c *gin.Context) {
	schedules, err := h.query.SchedulesByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// ListSchedules handles GET /api/admin/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.query.ListSchedules(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// CreateSchedule handles POST /api/admin/schedules?busId=
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	busID, ok := queryID(c, "busId")
	if !ok {
		return
	}

	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "travelDate, departureTime and arrivalTime are required")
		return
	}

	schedule, err := h.fleet.CreateSchedule(c.Request.Context(), busID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// DeleteSchedule handles DELETE /api/admin/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.fleet.DeleteSchedule(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}
