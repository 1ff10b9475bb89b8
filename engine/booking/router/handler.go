package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth/userctx"
	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/booking/uc"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/engine/infra/server/router"
)

// Handler handles booking-related HTTP requests
type Handler struct {
	repo uc.Repository
}

// NewHandler creates a new booking handler
func NewHandler(repo uc.Repository) *Handler {
	return &Handler{repo: repo}
}

// ListRooms returns the bookable rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := uc.NewListRooms(h.repo).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	if rooms == nil {
		rooms = []*model.Room{}
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateBookingRequest is the payload for reserving a room interval.
type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"   binding:"required"`
	Notes     string `json:"notes"      binding:"omitempty,max=500"`
}

// CreateBooking reserves [start_time, end_time) of a room for the
// authenticated user.
func (h *Handler) CreateBooking(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.RespondError(c, core.NewInvalidInput("body", err.Error()))
		return
	}
	roomID, err := core.ParseID(req.RoomID)
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("room_id", "malformed room id"))
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("start_time", "must be an ISO-8601 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("end_time", "must be an ISO-8601 timestamp"))
		return
	}
	booking, err := uc.NewCreateBooking(h.repo, user.ID, roomID, start, end, req.Notes).
		Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// DeleteBooking removes one of the authenticated user's bookings
func (h *Handler) DeleteBooking(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	bookingID, err := core.ParseID(c.Param("id"))
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("id", "malformed booking id"))
		return
	}
	if err := uc.NewDeleteBooking(h.repo, user.ID, bookingID).Execute(c.Request.Context()); err != nil {
		router.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBookings returns bookings matching the validated query filters,
// ordered by start time.
func (h *Handler) ListBookings(c *gin.Context) {
	params := uc.FilterParams{
		UserID:      c.Query("user_id"),
		RoomID:      c.Query("room_id"),
		StartTime:   c.Query("start_time"),
		StartTimeOp: c.Query("start_time_op"),
		EndTime:     c.Query("end_time"),
		EndTimeOp:   c.Query("end_time_op"),
		Limit:       c.Query("limit"),
	}
	bookings, err := uc.NewListBookings(h.repo, params).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// AvailabilityResponse reports whether a window is free.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// CheckAvailability is the read-only probe backing the calendar UI.
func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, err := core.ParseID(c.Query("room_id"))
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("room_id", "malformed room id"))
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("start_time", "must be an ISO-8601 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("end_time", "must be an ISO-8601 timestamp"))
		return
	}
	available, err := uc.NewCheckAvailability(h.repo, roomID, start, end, "").
		Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Available: available})
}
