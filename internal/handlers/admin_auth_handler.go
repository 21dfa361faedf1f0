package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	adminAuthService *services.AdminAuthService
	logger           *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(adminAuthService *services.AdminAuthService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		adminAuthService: adminAuthService,
		logger:           logger,
	}
}

// Login handles POST /api/auth/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	response, err := h.adminAuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"error":    err.Error(),
		}).Warn("Admin login failed")
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("username", req.Username).Info("Admin login successful")
	c.JSON(http.StatusOK, response)
}
