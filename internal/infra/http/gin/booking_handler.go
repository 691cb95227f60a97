package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	bookingapp "roomdesk/internal/app/handlers/booking"
	"roomdesk/internal/app/queries"
	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	RoomID          string `json:"room_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	GuestName       string `json:"guest_name"`
	GuestPhone      string `json:"guest_phone"`
	SponsorID       string `json:"sponsor_id"`
	SpecialRequests string `json:"special_requests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands")
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.RoomID) == "" {
		badRequest(c, "room_id is required")
		return
	}
	checkIn, ok := parseFlexibleTime(req.CheckIn)
	if !ok {
		badRequest(c, "check_in must be RFC3339 or YYYY-MM-DD")
		return
	}
	checkOut, ok := parseFlexibleTime(req.CheckOut)
	if !ok {
		badRequest(c, "check_out must be RFC3339 or YYYY-MM-DD")
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID: generateCommandID(),
		Account:   strings.TrimSpace(c.GetHeader(accountHeader)),
		Request: domainbooking.Request{
			RoomID:   domainrooms.RoomID(strings.TrimSpace(req.RoomID)),
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Guests:   req.Guests,
			Contact: domainbooking.Contact{
				GuestName:       req.GuestName,
				GuestPhone:      req.GuestPhone,
				SponsorID:       req.SponsorID,
				SpecialRequests: req.SpecialRequests,
			},
		},
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) List(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "queries")
		return
	}
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, bookingapp.ListBookingsQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
