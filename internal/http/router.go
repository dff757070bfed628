// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink/internal/http/handlers"
	"cargolink/internal/http/middleware"
	"cargolink/internal/modules/booking"
	"cargolink/internal/modules/stats"
)

func NewRouter(bookingSvc *booking.Service, statsSvc *stats.Service) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	bookingHandler := handlers.NewBookingHandler(bookingSvc)
	r.POST("/bookings", bookingHandler.Create)
	r.GET("/bookings", bookingHandler.List)
	r.GET("/bookings/:id", bookingHandler.Get)

	driverHandler := handlers.NewDriverHandler(bookingSvc)
	r.PUT("/bookings/:id/assign", driverHandler.Assign)
	r.PUT("/driver/bookings/:id/complete", driverHandler.Complete)
	r.GET("/driver/:id/completed-jobs", driverHandler.CompletedJobs)

	adminHandler := handlers.NewAdminHandler(statsSvc)
	admin := r.Group("/admin")
	admin.GET("/booking-stats", adminHandler.BookingStats)
	admin.GET("/driver-stats", adminHandler.DriverStats)
	admin.GET("/booking-trends", adminHandler.BookingTrends)
	admin.GET("/revenue-stats", adminHandler.RevenueStats)
	admin.GET("/average-revenue", adminHandler.AverageRevenue)
	admin.GET("/top-routes", adminHandler.TopRoutes)
	admin.GET("/total-earnings", adminHandler.TotalEarnings)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
