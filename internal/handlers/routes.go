package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smarttransit/seat-booking-backend/internal/middleware"
	"github.com/smarttransit/seat-booking-backend/pkg/jwt"
)

// Handlers groups every HTTP handler of the service
type Handlers struct {
	Auth      *AdminAuthHandler
	Admin     *AdminHandler
	Bookings  *BookingHandler
	Buses     *BusHandler
	Schedules *ScheduleHandler
	Seats     *SeatHandler
}

// RegisterRoutes mounts the public and admin routes on api.
// auth must populate the user context for RequireRole.
func RegisterRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	api.GET("/schedules/by-date", h.Schedules.SchedulesByDate)
	api.GET("/seats", h.Seats.ListSeats)
	api.POST("/bookings", h.Bookings.CreateBooking)
	api.GET("/bookings/search", h.Bookings.SearchBooking)
	api.POST("/auth/login", h.Auth.Login)

	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.GET("/buses", h.Buses.ListBuses)
		admin.POST("/buses", h.Buses.CreateBus)
		admin.DELETE("/buses/:id", h.Buses.DeleteBus)

		admin.GET("/schedules", h.Schedules.ListSchedules)
		admin.POST("/schedules", h.Schedules.CreateSchedule)
		admin.DELETE("/schedules/:id", h.Schedules.DeleteSchedule)

		admin.GET("/bookings", h.Bookings.ListBookings)
		admin.DELETE("/bookings/:id", h.Bookings.CancelBooking)
		admin.PUT("/bookings/:id/change-seat", h.Bookings.ChangeSeat)
		admin.GET("/bookings/by-seat/:seatId", h.Bookings.BookingBySeat)

		admin.PUT("/seats/:id/reserve", h.Seats.ReserveSeat)
		admin.PUT("/seats/:id/available", h.Seats.ReleaseSeat)

		admin.GET("/dashboard/stats", h.Admin.DashboardStats)
	}
}
