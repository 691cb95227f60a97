package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/money"
)

var ErrUnknownRoom = errors.New("fixtures: booking references unknown room")

type roomFixture struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Image       string   `json:"image"`
	Capacity    int      `json:"capacity"`
	Price       float64  `json:"price"`
	PriceCents  *int64   `json:"price_cents,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Amenities   []string `json:"amenities"`
	Available   bool     `json:"available"`
	Description string   `json:"description"`
}

type bookingFixture struct {
	ID              string `json:"id"`
	RoomID          string `json:"room_id"`
	Account         string `json:"account"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	GuestName       string `json:"guest_name"`
	GuestPhone      string `json:"guest_phone"`
	SponsorID       string `json:"sponsor_id"`
	SpecialRequests string `json:"special_requests"`
	CreatedAt       string `json:"created_at"`
}

// Skipped describes a fixture entry that could not be imported.
type Skipped struct {
	ID  string
	Err error
}

// LoadRooms reads a room catalog file. Prices are major units unless
// price_cents is given; currency falls back to defaultCurrency. Invalid
// entries are reported in skipped and left out.
func LoadRooms(path, defaultCurrency string) ([]*domainrooms.Room, []Skipped, error) {
	var raw []roomFixture
	if err := readJSON(path, &raw); err != nil {
		return nil, nil, err
	}
	rooms := make([]*domainrooms.Room, 0, len(raw))
	var skipped []Skipped
	for _, fx := range raw {
		room, err := fx.toRoom(defaultCurrency)
		if err != nil {
			skipped = append(skipped, Skipped{ID: fx.ID, Err: err})
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, skipped, nil
}

func (fx roomFixture) toRoom(defaultCurrency string) (*domainrooms.Room, error) {
	currency := fx.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	cents := int64(math.Round(fx.Price * 100))
	if fx.PriceCents != nil {
		cents = *fx.PriceCents
	}
	nightly, err := money.New(cents, currency)
	if err != nil {
		return nil, err
	}
	return domainrooms.NewRoom(domainrooms.CreateRoomParams{
		ID:          domainrooms.RoomID(fx.ID),
		Name:        fx.Name,
		Category:    domainrooms.Category(fx.Type),
		Capacity:    fx.Capacity,
		Nightly:     nightly,
		Amenities:   fx.Amenities,
		Available:   fx.Available,
		Description: fx.Description,
		Image:       fx.Image,
	})
}

// LoadBookings reads historical bookings and prices them against rooms.
// The past-date rule is not applied; dates are YYYY-MM-DD or RFC3339.
func LoadBookings(path string, rooms []*domainrooms.Room) ([]*domainbooking.Booking, []Skipped, error) {
	var raw []bookingFixture
	if err := readJSON(path, &raw); err != nil {
		return nil, nil, err
	}
	byID := make(map[domainrooms.RoomID]*domainrooms.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	out := make([]*domainbooking.Booking, 0, len(raw))
	var skipped []Skipped
	for _, fx := range raw {
		b, err := fx.toBooking(byID)
		if err != nil {
			skipped = append(skipped, Skipped{ID: fx.ID, Err: err})
			continue
		}
		out = append(out, b)
	}
	return out, skipped, nil
}

func (fx bookingFixture) toBooking(rooms map[domainrooms.RoomID]*domainrooms.Room) (*domainbooking.Booking, error) {
	room, ok := rooms[domainrooms.RoomID(fx.RoomID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, fx.RoomID)
	}
	checkIn, err := parseDate(fx.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("check_in: %w", err)
	}
	checkOut, err := parseDate(fx.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check_out: %w", err)
	}
	createdAt := checkIn
	if strings.TrimSpace(fx.CreatedAt) != "" {
		if createdAt, err = parseDate(fx.CreatedAt); err != nil {
			return nil, fmt.Errorf("created_at: %w", err)
		}
	}
	// Quote against the creation time so historical dates are not "past".
	price, outcome := domainbooking.Quote(room, checkIn, checkOut, fx.Guests, createdAt)
	if !outcome.OK() {
		return nil, outcome.Err()
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:       domainbooking.BookingID(fx.ID),
		Room:     room,
		Account:  fx.Account,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   fx.Guests,
		Contact: domainbooking.Contact{
			GuestName:       fx.GuestName,
			GuestPhone:      fx.GuestPhone,
			SponsorID:       fx.SponsorID,
			SpecialRequests: fx.SpecialRequests,
		},
		Price:     price,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, err
	}
	b.ClearEvents()
	return b, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
