package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// ErrorResponse is the JSON error envelope returned by every route.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondError translates a domain error into an HTTP response. Internal
// details are logged server-side and never echoed to the client.
func RespondError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())
	var fieldErr *core.InvalidFieldError
	switch {
	case errors.As(err, &fieldErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: fieldErr.Error(),
		})
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidFilter):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, core.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
	case errors.Is(err, core.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "not authorized"})
	case errors.Is(err, core.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, core.ErrSlotTaken):
		var taken *core.SlotTakenError
		details := ""
		if errors.As(err, &taken) {
			details = taken.Error()
		}
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
			Error:   "already booked",
			Details: details,
		})
	case errors.Is(err, core.ErrUnavailable):
		log.Error("dependency failure", "error", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
	default:
		log.Error("unhandled error", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// SendUnauthorized rejects the request with a 401 envelope.
func SendUnauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "Authentication required",
		Details: details,
	})
}
