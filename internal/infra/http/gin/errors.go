package ginserver

import (
	"context"
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/commands"
	bookingapp "roomdesk/internal/app/handlers/booking"
	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/queries"
	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
)

// writeError maps application errors onto status codes and JSON bodies.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	// A replayed rejection answers like the first attempt did.
	var replayed *middleware.ReplayedFailureError
	if errors.As(err, &replayed) && replayed.Reason != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": replayed.Message, "reason": replayed.Reason, "replayed": true})
		return
	}
	var validation *bookingapp.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validation.Error(), "reason": string(validation.Outcome.Reason)})
		return
	}
	var contact *bookingapp.ContactError
	if errors.As(err, &contact) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": contact.Error(), "reason": bookingapp.ReasonMissingContact, "fields": contact.Fields})
		return
	}
	if reason, ok := bookingReason(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "reason": string(reason)})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainrooms.ErrRoomNotFound), errors.Is(err, domainbooking.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainrooms.ErrIDRequired):
		status = http.StatusBadRequest
	case errors.Is(err, bookingapp.ErrRoomUnavailable), errors.Is(err, middleware.ErrReplayedFailure):
		status = http.StatusConflict
	case errors.Is(err, commands.ErrHandlerNotFound), errors.Is(err, queries.ErrHandlerNotFound):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bookingReason(err error) (domainbooking.Reason, bool) {
	switch {
	case errors.Is(err, domainbooking.ErrInvalidDateRange):
		return domainbooking.ReasonInvalidDateRange, true
	case errors.Is(err, domainbooking.ErrGuestCountOutOfRange):
		return domainbooking.ReasonGuestCountOutOfRange, true
	case errors.Is(err, domainbooking.ErrCheckInInPast):
		return domainbooking.ReasonCheckInInPast, true
	}
	return domainbooking.ReasonNone, false
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " unavailable"})
}
