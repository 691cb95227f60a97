package rooms

import (
	"context"
	"errors"
	"strings"

	"roomdesk/internal/domain/shared/money"
)

var (
	ErrIDRequired      = errors.New("rooms: id is required")
	ErrNameRequired    = errors.New("rooms: name is required")
	ErrUnknownCategory = errors.New("rooms: unknown category")
	ErrCapacity        = errors.New("rooms: capacity must be at least 1")
	ErrNightlyRate     = errors.New("rooms: nightly rate must be non-negative")
	ErrRoomNotFound    = errors.New("rooms: not found")
)

type RoomID string

type Category string

const (
	CategoryStandard  Category = "Standard"
	CategoryExecutive Category = "Executive"
	CategorySuite     Category = "Suite"
)

// Categories lists the closed set in display order.
func Categories() []Category {
	return []Category{CategoryStandard, CategoryExecutive, CategorySuite}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryStandard, CategoryExecutive, CategorySuite:
		return true
	default:
		return false
	}
}

// Room is read-only for everything outside this package.
type Room struct {
	ID          RoomID
	Name        string
	Category    Category
	Capacity    int
	Nightly     money.Money
	Amenities   []string
	Available   bool
	Description string
	Image       string
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	// List returns rooms in catalog order.
	List(ctx context.Context) ([]*Room, error)
}

type CreateRoomParams struct {
	ID          RoomID
	Name        string
	Category    Category
	Capacity    int
	Nightly     money.Money
	Amenities   []string
	Available   bool
	Description string
	Image       string
}

func NewRoom(params CreateRoomParams) (*Room, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if !params.Category.Valid() {
		return nil, ErrUnknownCategory
	}
	if params.Capacity < 1 {
		return nil, ErrCapacity
	}
	if params.Nightly.IsNegative() {
		return nil, ErrNightlyRate
	}
	if params.Nightly.Currency == "" {
		return nil, money.ErrInvalidCurrency
	}
	return &Room{
		ID:          RoomID(strings.TrimSpace(string(params.ID))),
		Name:        strings.TrimSpace(params.Name),
		Category:    params.Category,
		Capacity:    params.Capacity,
		Nightly:     params.Nightly,
		Amenities:   uniqueLabels(params.Amenities),
		Available:   params.Available,
		Description: strings.TrimSpace(params.Description),
		Image:       strings.TrimSpace(params.Image),
	}, nil
}

// Copy returns a deep copy so callers cannot mutate shared state.
func (r *Room) Copy() *Room {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Amenities = append([]string(nil), r.Amenities...)
	return &clone
}

func uniqueLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out
}
