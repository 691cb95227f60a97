package dto

import (
	domainrooms "roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
		Display:  value.String(),
	}
}

// RoomCard is the catalog representation of a room.
type RoomCard struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Capacity     int          `json:"capacity"`
	Nightly      MoneyDTO     `json:"nightly"`
	Amenities    []AmenityDTO `json:"amenities"`
	Available    bool         `json:"available"`
	Availability string       `json:"availability"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
}

// RoomCatalog is the filtered room list with the applied filters echoed back.
type RoomCatalog struct {
	Items   []RoomCard     `json:"items"`
	Filters CatalogFilters `json:"filters"`
	Meta    CatalogMeta    `json:"meta"`
}

type CatalogFilters struct {
	Search       string `json:"search"`
	Type         string `json:"type"`
	Availability string `json:"availability"`
}

type CatalogMeta struct {
	Total int `json:"total"`
	Count int `json:"count"`
}

// MapRoomCard copies domain data for the client. imageURL is the resolved
// form of room.Image.
func MapRoomCard(room *domainrooms.Room, imageURL string) RoomCard {
	if room == nil {
		return RoomCard{}
	}
	return RoomCard{
		ID:           string(room.ID),
		Name:         room.Name,
		Type:         string(room.Category),
		Capacity:     room.Capacity,
		Nightly:      MapMoney(room.Nightly),
		Amenities:    MapAmenities(room.Amenities),
		Available:    room.Available,
		Availability: availabilityLabel(room.Available),
		Description:  room.Description,
		ImageURL:     imageURL,
	}
}

func MapCatalogFilters(c domainrooms.Criteria) CatalogFilters {
	normalized := c.Normalized()
	return CatalogFilters{
		Search:       normalized.Search,
		Type:         string(normalized.Category),
		Availability: string(normalized.Availability),
	}
}

func availabilityLabel(available bool) string {
	if available {
		return "Available"
	}
	return "Occupied"
}
