package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Error
const (
	CodeSeatUnavailable   = "SEAT_UNAVAILABLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeValidation        = "VALIDATION_ERROR"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrSeatUnavailable, http.StatusConflict, CodeSeatUnavailable},
	{services.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{services.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{services.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{services.ErrValidation, http.StatusBadRequest, CodeValidation},
	{services.ErrConflict, http.StatusConflict, CodeConflict},
}

// respondError writes the status and code for a service error.
// Unknown errors are logged and reported without details.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, ErrorResponse{Error: e.code, Message: err.Error()})
			return
		}
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("Request failed")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeInternal,
		Message: "An internal error occurred",
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: CodeValidation, Message: message})
}

// parseID reads a positive integer id. It writes the 400 itself on failure.
func parseID(c *gin.Context, name, value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	return parseID(c, name, c.Param(name))
}

func queryID(c *gin.Context, name string) (int64, bool) {
	value := c.Query(name)
	if value == "" {
		badRequest(c, name+" is required")
		return 0, false
	}
	return parseID(c, name, value)
}
