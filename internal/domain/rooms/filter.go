package rooms

import (
	"strings"

	"roomdesk/internal/domain/shared/money"
)

// CategoryFilter selects one category or any.
type CategoryFilter string

// AvailabilityFilter selects rooms by their availability flag.
type AvailabilityFilter string

const (
	CategoryAny CategoryFilter = "any"

	AvailabilityAny         AvailabilityFilter = "any"
	AvailabilityAvailable   AvailabilityFilter = "available"
	AvailabilityUnavailable AvailabilityFilter = "unavailable"
)

// Criteria is the combined search, category and availability filter state.
type Criteria struct {
	Search       string
	Category     CategoryFilter
	Availability AvailabilityFilter
}

// Normalized returns a sanitized copy of c. Unknown filter values survive
// normalization so that they match nothing.
func (c Criteria) Normalized() Criteria {
	normalized := c
	normalized.Search = strings.ToLower(strings.TrimSpace(c.Search))
	if strings.TrimSpace(string(c.Category)) == "" {
		normalized.Category = CategoryAny
	}
	if strings.TrimSpace(string(c.Availability)) == "" {
		normalized.Availability = AvailabilityAny
	}
	return normalized
}

// Matches reports whether room satisfies every criterion.
func (c Criteria) Matches(room *Room) bool {
	if room == nil {
		return false
	}
	opts := c.Normalized()
	return opts.matchesSearch(room) && opts.matchesCategory(room) && opts.matchesAvailability(room)
}

func (c Criteria) matchesSearch(room *Room) bool {
	if c.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(room.Name), c.Search) ||
		strings.Contains(strings.ToLower(string(room.Category)), c.Search)
}

func (c Criteria) matchesCategory(room *Room) bool {
	if c.Category == CategoryAny {
		return true
	}
	return Category(c.Category) == room.Category
}

func (c Criteria) matchesAvailability(room *Room) bool {
	switch c.Availability {
	case AvailabilityAny:
		return true
	case AvailabilityAvailable:
		return room.Available
	case AvailabilityUnavailable:
		return !room.Available
	default:
		return false
	}
}

// Filter returns the rooms matching c in their original order. The input is
// never modified and the result is never nil.
func Filter(rooms []*Room, c Criteria) []*Room {
	opts := c.Normalized()
	out := make([]*Room, 0, len(rooms))
	for _, room := range rooms {
		if room == nil {
			continue
		}
		if opts.matchesSearch(room) && opts.matchesCategory(room) && opts.matchesAvailability(room) {
			out = append(out, room)
		}
	}
	return out
}

// ParseCategoryFilter maps user input onto the closed set. "All" and "" mean
// any; matching is case-insensitive. Anything else is returned verbatim.
func ParseCategoryFilter(raw string) CategoryFilter {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "all") || strings.EqualFold(value, string(CategoryAny)) {
		return CategoryAny
	}
	for _, category := range Categories() {
		if strings.EqualFold(value, string(category)) {
			return CategoryFilter(category)
		}
	}
	return CategoryFilter(value)
}

// ParseAvailabilityFilter accepts available/occupied/unavailable/all.
func ParseAvailabilityFilter(raw string) AvailabilityFilter {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", "all", "any":
		return AvailabilityAny
	case "available":
		return AvailabilityAvailable
	case "unavailable", "occupied":
		return AvailabilityUnavailable
	default:
		return AvailabilityFilter(value)
	}
}

// CountAvailable counts rooms whose availability flag is set.
func CountAvailable(rooms []*Room) int {
	count := 0
	for _, room := range rooms {
		if room != nil && room.Available {
			count++
		}
	}
	return count
}

// LowestAvailableNightly returns the cheapest nightly rate among available
// rooms. ok is false when no room is available.
func LowestAvailableNightly(rooms []*Room) (lowest money.Money, ok bool) {
	for _, room := range rooms {
		if room == nil || !room.Available {
			continue
		}
		if !ok {
			lowest, ok = room.Nightly, true
			continue
		}
		if less, err := room.Nightly.Less(lowest); err == nil && less {
			lowest = room.Nightly
		}
	}
	return lowest, ok
}
