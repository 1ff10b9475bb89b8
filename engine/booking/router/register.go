package router

import (
	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth"
	"github.com/meetly/meetly/engine/booking/uc"
)

// RegisterRoutes registers all booking routes
func RegisterRoutes(apiBase *gin.RouterGroup, repo uc.Repository, mw *auth.Middleware) {
	handler := NewHandler(repo)

	apiBase.GET("/rooms", handler.ListRooms)

	bookings := apiBase.Group("/bookings")
	{
		bookings.GET("/availability", handler.CheckAvailability)

		protected := bookings.Group("")
		protected.Use(mw.RequireAuth())
		protected.GET("", handler.ListBookings)
		protected.POST("", handler.CreateBooking)
		protected.DELETE("/:id", handler.DeleteBooking)
	}
}
