package game

import (
	"cmp"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"

	"game-tracker-go/internal/game/options"
)

var maxReleaseDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Apply filters games by f and sorts the result by f.Ordering. The input
// slice is never modified.
func Apply(games []Game, f Filters) []Game {
	fold := cases.Fold()
	search := fold.String(f.Search)

	result := make([]Game, 0, len(games))
	for _, g := range games {
		if matches(g, f, search, fold) {
			result = append(result, g)
		}
	}
	SortGames(result, f.Ordering)
	return result
}

func matches(g Game, f Filters, search string, fold cases.Caser) bool {
	if search != "" && !strings.Contains(fold.String(g.Name), search) {
		return false
	}
	if !options.IsAll(f.Platform) && !g.HasPlatform(f.Platform) {
		return false
	}
	if !options.IsAll(f.Genre) && !g.HasGenre(f.Genre) {
		return false
	}
	if f.FavoritesOnly && !g.IsFavorite {
		return false
	}
	return inRange(g.Released, f.Dates)
}

func inRange(released ReleaseDate, r DateRange) bool {
	start := time.Time{}
	if !r.Start.IsZero() {
		start = r.Start.Time
	}
	end := maxReleaseDate
	if !r.End.IsZero() {
		end = r.End.Time
	}
	return !released.Before(start) && !released.After(end)
}

// SortGames stably sorts games in place. Unknown orderings, and orderings
// the local data can't express such as OrderCreatedDesc, sort by ascending
// release date.
func SortGames(games []Game, ordering options.Ordering) {
	var compare func(a, b Game) int

	switch ordering {
	case options.OrderName:
		fold := cases.Fold()
		compare = func(a, b Game) int {
			return strings.Compare(fold.String(a.Name), fold.String(b.Name))
		}
	case options.OrderRatingDesc:
		compare = func(a, b Game) int {
			return cmp.Compare(b.RatingOrZero(), a.RatingOrZero())
		}
	case options.OrderRatingAsc:
		compare = func(a, b Game) int {
			return cmp.Compare(a.RatingOrZero(), b.RatingOrZero())
		}
	case options.OrderMetacriticDesc:
		compare = func(a, b Game) int {
			return cmp.Compare(b.MetacriticOrZero(), a.MetacriticOrZero())
		}
	default:
		compare = func(a, b Game) int {
			return a.Released.Compare(b.Released.Time)
		}
	}

	slices.SortStableFunc(games, compare)
}

// Paginate returns the page-th window of size pageSize, 1-based. A page past
// the end yields an empty slice.
func Paginate(games []Game, page, pageSize int) []Game {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	start := (page - 1) * pageSize
	if start >= len(games) {
		return []Game{}
	}
	end := start + pageSize
	if end > len(games) {
		end = len(games)
	}
	return games[start:end]
}
