package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
	"roomdesk/internal/domain/shared/events"
)

var (
	ErrIDRequired      = errors.New("booking: id is required")
	ErrRoomRequired    = errors.New("booking: room is required")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrPriceMismatch   = errors.New("booking: quoted price does not match stay")
)

type BookingID string

type Status string

const (
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
)

// Contact holds pass-through guest details. Only presence is checked.
type Contact struct {
	GuestName       string
	GuestPhone      string
	SponsorID       string
	SpecialRequests string
}

// MissingFields lists required contact fields that are blank.
func (c Contact) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.GuestName) == "" {
		missing = append(missing, "guest_name")
	}
	if strings.TrimSpace(c.GuestPhone) == "" {
		missing = append(missing, "guest_phone")
	}
	if strings.TrimSpace(c.SponsorID) == "" {
		missing = append(missing, "sponsor_id")
	}
	return missing
}

func (c Contact) trimmed() Contact {
	return Contact{
		GuestName:       strings.TrimSpace(c.GuestName),
		GuestPhone:      strings.TrimSpace(c.GuestPhone),
		SponsorID:       strings.TrimSpace(c.SponsorID),
		SpecialRequests: strings.TrimSpace(c.SpecialRequests),
	}
}

// Request is the transient input collected by the booking form.
type Request struct {
	RoomID   rooms.RoomID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Contact  Contact
}

type Booking struct {
	ID        BookingID
	RoomID    rooms.RoomID
	Account   string
	Range     daterange.DateRange
	Guests    int
	Contact   Contact
	Price     Result
	Status    Status
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// List returns bookings newest first.
	List(ctx context.Context) ([]*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	Room      *rooms.Room
	Account   string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Contact   Contact
	Price     Result
	CreatedAt time.Time
}

// NewBooking builds a confirmed booking. The range and guest count are
// re-checked against the room; the past-date rule is left to callers so that
// historical bookings can be imported.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if params.Room == nil {
		return nil, ErrRoomRequired
	}
	stay, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if err := ValidateGuestCount(params.Guests, params.Room.Capacity).Err(); err != nil {
		return nil, err
	}
	nights := stay.Nights()
	if params.Price.Nights != nights || params.Price.Total != ComputeTotal(nights, params.Room.Nightly) {
		return nil, ErrPriceMismatch
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		RoomID:    params.Room.ID,
		Account:   strings.TrimSpace(params.Account),
		Range:     stay,
		Guests:    params.Guests,
		Contact:   params.Contact.trimmed(),
		Price:     params.Price,
		Status:    StatusConfirmed,
		CreatedAt: now,
	}
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Guests:    b.Guests,
		Nights:    b.Price.Nights,
		Total:     b.Price.Total,
		At:        now,
	})
	return b, nil
}

// StatusAt reports Completed once the stay is over.
func (b *Booking) StatusAt(now time.Time) Status {
	if b.Status == StatusConfirmed && !b.Range.CheckOut.After(now) {
		return StatusCompleted
	}
	return b.Status
}

// Upcoming reports whether check-in is still ahead of now.
func (b *Booking) Upcoming(now time.Time) bool {
	return b.Range.StartsAfter(now)
}

// Copy returns a snapshot without pending events.
func (b *Booking) Copy() *Booking {
	if b == nil {
		return nil
	}
	return &Booking{
		ID:        b.ID,
		RoomID:    b.RoomID,
		Account:   b.Account,
		Range:     b.Range,
		Guests:    b.Guests,
		Contact:   b.Contact,
		Price:     b.Price,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}
