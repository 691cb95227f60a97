package dto

import (
	"time"

	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
)

// Quote is the booking summary shown before confirmation.
type Quote struct {
	RoomID   string    `json:"room_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
	Nights   int       `json:"nights"`
	Nightly  MoneyDTO  `json:"nightly"`
	Total    MoneyDTO  `json:"total"`
}

func MapQuote(roomID domainrooms.RoomID, checkIn, checkOut time.Time, guests int, result domainbooking.Result) Quote {
	return Quote{
		RoomID:   string(roomID),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
		Nights:   result.Nights,
		Nightly:  MapMoney(result.Nightly),
		Total:    MapMoney(result.Total),
	}
}

type BookingRoomSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ContactDTO struct {
	GuestName       string `json:"guest_name"`
	GuestPhone      string `json:"guest_phone"`
	SponsorID       string `json:"sponsor_id"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type BookingSummary struct {
	ID        string              `json:"id"`
	Room      BookingRoomSnapshot `json:"room"`
	CheckIn   time.Time           `json:"check_in"`
	CheckOut  time.Time           `json:"check_out"`
	Guests    int                 `json:"guests"`
	Nights    int                 `json:"nights"`
	Total     MoneyDTO            `json:"total"`
	Status    string              `json:"status"`
	Contact   ContactDTO          `json:"contact"`
	CreatedAt time.Time           `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

// MapBookingSummary builds the list entry; room may be nil when the catalog
// no longer has it, in which case only the id is filled.
func MapBookingSummary(b *domainbooking.Booking, room *domainrooms.Room, imageURL string, now time.Time) BookingSummary {
	snapshot := BookingRoomSnapshot{ID: string(b.RoomID)}
	if room != nil {
		snapshot.Name = room.Name
		snapshot.Type = string(room.Category)
		snapshot.ImageURL = imageURL
	}
	return BookingSummary{
		ID:       string(b.ID),
		Room:     snapshot,
		CheckIn:  b.Range.CheckIn,
		CheckOut: b.Range.CheckOut,
		Guests:   b.Guests,
		Nights:   b.Price.Nights,
		Total:    MapMoney(b.Price.Total),
		Status:   string(b.StatusAt(now)),
		Contact: ContactDTO{
			GuestName:       b.Contact.GuestName,
			GuestPhone:      b.Contact.GuestPhone,
			SponsorID:       b.Contact.SponsorID,
			SpecialRequests: b.Contact.SpecialRequests,
		},
		CreatedAt: b.CreatedAt,
	}
}
