package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: checkout must be after checkin")

const day = 24 * time.Hour

// DateRange represents a half-open interval [checkIn, checkOut)
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts billed nights; see NightsBetween.
func (dr DateRange) Nights() int {
	return NightsBetween(dr.CheckIn, dr.CheckOut)
}

// NightsBetween returns the ceiling of (checkOut - checkIn) in 24h days, so a
// 36h stay bills two nights. The arithmetic runs on absolute durations: a
// local-time day that spans a DST switch is 23h or 25h and may round up.
// Callers must validate the range first; misordered inputs yield <= 0.
func NightsBetween(checkIn, checkOut time.Time) int {
	span := checkOut.Sub(checkIn)
	nights := span / day
	if span%day > 0 {
		nights++
	}
	return int(nights)
}

// StartsAfter reports whether the stay begins strictly after t.
func (dr DateRange) StartsAfter(t time.Time) bool {
	return dr.CheckIn.After(t)
}

// TruncateDay drops the time-of-day component in UTC.
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
