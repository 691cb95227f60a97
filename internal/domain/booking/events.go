package booking

import (
	"time"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/money"
)

type BookingConfirmed struct {
	BookingID BookingID    `json:"booking_id"`
	RoomID    rooms.RoomID `json:"room_id"`
	CheckIn   time.Time    `json:"check_in"`
	CheckOut  time.Time    `json:"check_out"`
	Guests    int          `json:"guests"`
	Nights    int          `json:"nights"`
	Total     money.Money  `json:"total"`
	At        time.Time    `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }
