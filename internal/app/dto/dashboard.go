package dto

// Dashboard carries the header counters.
type Dashboard struct {
	Account           string    `json:"account,omitempty"`
	TotalBookings     int       `json:"total_bookings"`
	UpcomingBookings  int       `json:"upcoming_bookings"`
	CompletedBookings int       `json:"completed_bookings"`
	AvailableRooms    int       `json:"available_rooms"`
	StartingFrom      *MoneyDTO `json:"starting_from,omitempty"`
}
