package booking

import "time"

// Summary aggregates booking counts for the dashboard.
type Summary struct {
	Total     int
	Upcoming  int
	Completed int
}

// Summarize counts bookings whose check-in lies after now as upcoming and
// everything else as completed.
func Summarize(bookings []*Booking, now time.Time) Summary {
	s := Summary{Total: len(bookings)}
	for _, b := range bookings {
		if b != nil && b.Upcoming(now) {
			s.Upcoming++
		}
	}
	s.Completed = s.Total - s.Upcoming
	return s
}
