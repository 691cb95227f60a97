package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/dto"
	bookingapp "roomdesk/internal/app/handlers/booking"
	roomsapp "roomdesk/internal/app/handlers/rooms"
	"roomdesk/internal/app/queries"
)

// RoomHandler wires catalog and quote queries to HTTP.
type RoomHandler struct {
	Queries queries.Bus
}

// Catalog responds with rooms matching search, type and availability.
func (h RoomHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "room handler")
		return
	}
	query := roomsapp.SearchCatalogQuery{
		Search:       c.Query("search"),
		Type:         c.Query("type"),
		Availability: c.Query("availability"),
	}
	result, err := queries.Ask[roomsapp.SearchCatalogQuery, dto.RoomCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "room handler")
		return
	}
	result, err := queries.Ask[roomsapp.GetRoomQuery, dto.RoomCard](c.Request.Context(), h.Queries, roomsapp.GetRoomQuery{RoomID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type quoteRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
}

// Quote prices a stay. The body is optional; query parameters of the same
// names are used when it is absent.
func (h RoomHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "room handler")
		return
	}
	req := quoteRequest{
		CheckIn:  c.Query("check_in"),
		CheckOut: c.Query("check_out"),
		Guests:   parseInt(c.Query("guests")),
	}
	if c.Request.ContentLength != 0 && strings.Contains(c.ContentType(), "json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
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
	query := bookingapp.QuoteBookingQuery{
		RoomID:   c.Param("id"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	}
	result, err := queries.Ask[bookingapp.QuoteBookingQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) Amenities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": dto.KnownAmenities()})
}

var _ RoomHTTP = RoomHandler{}
