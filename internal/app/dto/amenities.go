package dto

import (
	"sort"
	"strings"
)

// AmenityIcons maps amenity labels to icon identifiers understood by the UI.
var AmenityIcons = map[string]string{
	"WiFi":         "wifi",
	"Parking":      "car",
	"Coffee":       "coffee",
	"TV":           "tv",
	"Private Bath": "bath",
}

// AmenityDTO is an amenity label paired with its icon.
type AmenityDTO struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// IconFor looks a label up case-insensitively; unknown labels have no icon.
func IconFor(label string) string {
	if icon, ok := AmenityIcons[label]; ok {
		return icon
	}
	for known, icon := range AmenityIcons {
		if strings.EqualFold(known, strings.TrimSpace(label)) {
			return icon
		}
	}
	return ""
}

func MapAmenities(labels []string) []AmenityDTO {
	out := make([]AmenityDTO, 0, len(labels))
	for _, label := range labels {
		out = append(out, AmenityDTO{Label: label, Icon: IconFor(label)})
	}
	return out
}

// KnownAmenities lists the icon table sorted by label.
func KnownAmenities() []AmenityDTO {
	out := make([]AmenityDTO, 0, len(AmenityIcons))
	for label, icon := range AmenityIcons {
		out = append(out, AmenityDTO{Label: label, Icon: icon})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
