package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsEmptyAndMisorderedRanges(t *testing.T) {
	checkIn := date(2024, time.August, 15)

	_, err := New(time.Time{}, checkIn)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New(checkIn, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New(checkIn, checkIn)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New(checkIn, checkIn.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)

	dr, err := New(checkIn, date(2024, time.August, 18))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Nights())
}

func TestNightsBetweenRoundsPartialDaysUp(t *testing.T) {
	start := date(2024, time.August, 15)
	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"one hour", start.Add(time.Hour), 1},
		{"exactly one day", start.Add(24 * time.Hour), 1},
		{"day and a half", start.Add(36 * time.Hour), 2},
		{"three days", date(2024, time.August, 18), 3},
		{"same instant", start, 0},
		{"reversed", start.Add(-36 * time.Hour), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NightsBetween(start, tc.end))
		})
	}
}

func TestStartsAfter(t *testing.T) {
	b := DateRange{CheckIn: date(2024, 8, 5), CheckOut: date(2024, 8, 7)}
	assert.True(t, b.StartsAfter(date(2024, 8, 4)))
	assert.False(t, b.StartsAfter(date(2024, 8, 5)))
}

func TestTruncateDay(t *testing.T) {
	in := time.Date(2024, 8, 15, 17, 30, 0, 0, time.FixedZone("X", 3*3600))
	assert.Equal(t, date(2024, 8, 15), TruncateDay(in))
	assert.True(t, TruncateDay(time.Time{}).IsZero())
}
