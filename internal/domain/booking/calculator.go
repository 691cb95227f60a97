package booking

import (
	"fmt"
	"time"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
	"roomdesk/internal/domain/shared/money"
)

// Result is the derived price of a stay.
type Result struct {
	Nights  int
	Nightly money.Money
	Total   money.Money
}

// ComputeNights returns the billed nights between two present dates: the
// ceiling of the difference in 24h days. Run ValidateDateRange first; the
// value is meaningless for misordered dates.
func ComputeNights(checkIn, checkOut time.Time) int {
	return daterange.NightsBetween(checkIn, checkOut)
}

// ComputeTotal multiplies the nightly rate by the number of nights.
func ComputeTotal(nights int, nightly money.Money) money.Money {
	return nightly.Multiply(int64(nights))
}

// ValidateDateRange fails when either date is missing or check-out is not
// strictly after check-in.
func ValidateDateRange(checkIn, checkOut time.Time) Outcome {
	if checkIn.IsZero() || checkOut.IsZero() {
		return failed(ReasonInvalidDateRange, "please select check-in and check-out dates")
	}
	if !checkOut.After(checkIn) {
		return failed(ReasonInvalidDateRange, "check-out date must be after check-in date")
	}
	return succeeded()
}

// ValidateGuestCount requires 1 <= count <= capacity.
func ValidateGuestCount(count, capacity int) Outcome {
	if count < 1 || count > capacity {
		return failed(ReasonGuestCountOutOfRange, fmt.Sprintf("guest count must be between 1 and %d", capacity))
	}
	return succeeded()
}

// ValidateCheckInNotPast compares calendar days in UTC, so checking in later
// today is allowed.
func ValidateCheckInNotPast(checkIn, now time.Time) Outcome {
	if daterange.TruncateDay(checkIn).Before(daterange.TruncateDay(now)) {
		return failed(ReasonCheckInInPast, "check-in date cannot be in the past")
	}
	return succeeded()
}

// Quote validates a stay for room and prices it. Nothing is computed unless
// every validation passes.
func Quote(room *rooms.Room, checkIn, checkOut time.Time, guests int, now time.Time) (Result, Outcome) {
	if outcome := ValidateDateRange(checkIn, checkOut); !outcome.OK() {
		return Result{}, outcome
	}
	if outcome := ValidateCheckInNotPast(checkIn, now); !outcome.OK() {
		return Result{}, outcome
	}
	if outcome := ValidateGuestCount(guests, room.Capacity); !outcome.OK() {
		return Result{}, outcome
	}
	nights := ComputeNights(checkIn, checkOut)
	return Result{
		Nights:  nights,
		Nightly: room.Nightly,
		Total:   ComputeTotal(nights, room.Nightly),
	}, succeeded()
}
