// Package institutions implements the institution registry for Rankwise.
// An institution is one admitting organization at one location; its identity
// is the exact (name, location) pair.
package institutions

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Institution categories.
const (
	CategoryGovernment = "government"
	CategoryPrivate    = "private"
	CategoryDeemed     = "deemed"
)

// Institution represents one admitting organization at one location.
type Institution struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Category  string    `json:"category"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommand carries the identity and attributes of an institution
// referenced by an ingested row. City and State are derived from Location
// when left empty.
type CreateCommand struct {
	Name     string
	Location string
	Category string
	City     string
	State    string
}

// ParseLocation splits a comma separated location into city (first segment)
// and state (last segment). A single segment yields an empty state.
func ParseLocation(location string) (city, state string) {
	parts := strings.Split(location, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, state
}

// ClassifyCategory maps a free-text institution type to a category.
// Anything not recognisably government or deemed is private.
func ClassifyCategory(kind string) string {
	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "government"), strings.Contains(k, "govt"):
		return CategoryGovernment
	case strings.Contains(k, "deemed"):
		return CategoryDeemed
	default:
		return CategoryPrivate
	}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	return c == CategoryGovernment || c == CategoryPrivate || c == CategoryDeemed
}
