package options

import (
	"fmt"
	"strings"
)

// Ordering is a sort key understood by the catalog
type Ordering string

const (
	OrderReleased       Ordering = "released"    // Default, ascending release date
	OrderName           Ordering = "name"        // Ascending, case-folded
	OrderRatingDesc     Ordering = "-rating"     // Highest rating first
	OrderRatingAsc      Ordering = "rating"      // Lowest rating first
	OrderMetacriticDesc Ordering = "-metacritic" // Highest metacritic first
	OrderCreatedDesc    Ordering = "-created"    // Recently added first
)

// DefaultOrdering is used when no ordering is selected
const DefaultOrdering = OrderReleased

// All is the selector value that disables platform or genre filtering
const All = "all"

// SortOption pairs an ordering with its display label
type SortOption struct {
	Value Ordering
	Label string
}

// SortOptions lists the orderings in display order
var SortOptions = []SortOption{
	{Value: OrderReleased, Label: "Release Date"},
	{Value: OrderName, Label: "Name"},
	{Value: OrderRatingDesc, Label: "Rating (High to Low)"},
	{Value: OrderRatingAsc, Label: "Rating (Low to High)"},
	{Value: OrderMetacriticDesc, Label: "Metacritic Score"},
	{Value: OrderCreatedDesc, Label: "Recently Added"},
}

// Platforms maps the supported platform names to RAWG platform ids
var Platforms = map[string]int{
	"PC":              4,
	"PlayStation 5":   187,
	"Xbox Series S/X": 186,
	"Nintendo Switch": 7,
	"PlayStation 4":   18,
	"Xbox One":        1,
	"iOS":             3,
	"Android":         21,
}

// Genres maps the supported genre names to RAWG genre ids
var Genres = map[string]int{
	"Action":     4,
	"Adventure":  3,
	"RPG":        5,
	"Shooter":    2,
	"Platformer": 83,
	"Racing":     1,
	"Sports":     15,
	"Strategy":   10,
	"Simulation": 14,
	"Puzzle":     7,
	"Arcade":     11,
	"Fighting":   6,
	"Casual":     40,
	"Indie":      51,
}

// IsAll reports whether a platform or genre selector means "no filter".
// Accepts the display labels ("All Platforms", "All Genres") too.
func IsAll(selector string) bool {
	switch strings.TrimSpace(selector) {
	case "", All, "All Platforms", "All Genres":
		return true
	}
	return false
}

// PlatformID returns the RAWG id for a platform name
func PlatformID(name string) (int, bool) {
	id, ok := Platforms[name]
	return id, ok
}

// GenreID returns the RAWG id for a genre name. "FPS" is accepted as an
// alias for Shooter.
func GenreID(name string) (int, bool) {
	if name == "FPS" {
		name = "Shooter"
	}
	id, ok := Genres[name]
	return id, ok
}

// ParseOrdering validates an ordering, returning the default for an empty string
func ParseOrdering(s string) (Ordering, error) {
	if s == "" {
		return DefaultOrdering, nil
	}
	for _, opt := range SortOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("unknown ordering %q", s)
}

// Label returns the display label for an ordering
func (o Ordering) Label() string {
	for _, opt := range SortOptions {
		if opt.Value == o {
			return opt.Label
		}
	}
	return string(o)
}
