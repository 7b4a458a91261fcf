package game

import (
	"context"

	"game-tracker-go/internal/game/options"
)

// Catalog defines the operations the state store needs from a game source.
// Every call is scoped to the session's user.
type Catalog interface {
	FetchGames(ctx context.Context, filters Filters) ([]Game, error)
	FetchUpcoming(ctx context.Context, windowDays int) ([]Game, error)

	// Favorite operations
	AddFavorite(ctx context.Context, gameID int, name string) error
	RemoveFavorite(ctx context.Context, gameID int) error

	// Vote operations. VoteNone retracts the user's vote.
	Vote(ctx context.Context, gameID int, vote VoteType) error
	FetchStats(ctx context.Context, gameID int) (*VoteStats, error)
}

const (
	DefaultPageSize       = 20
	DefaultUpcomingWindow = 365
)

// DateRange bounds the release date. A zero Start or End leaves that side open.
type DateRange struct {
	Start ReleaseDate
	End   ReleaseDate
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Filters defines the criteria for filtering games
type Filters struct {
	Search        string
	Platform      string
	Genre         string
	Dates         DateRange
	Ordering      options.Ordering
	FavoritesOnly bool
	Page          int
	PageSize      int
}

// DefaultFilters returns Filters with default values
func DefaultFilters() Filters {
	return Filters{
		Platform: options.All,
		Genre:    options.All,
		Ordering: options.DefaultOrdering,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// FilterUpdate is a partial change to Filters; nil fields are left alone
type FilterUpdate struct {
	Search        *string
	Platform      *string
	Genre         *string
	Dates         *DateRange
	Ordering      *options.Ordering
	FavoritesOnly *bool
	PageSize      *int
}

// Merge applies u to f and resets the page to 1
func (f Filters) Merge(u FilterUpdate) Filters {
	if u.Search != nil {
		f.Search = *u.Search
	}
	if u.Platform != nil {
		f.Platform = *u.Platform
	}
	if u.Genre != nil {
		f.Genre = *u.Genre
	}
	if u.Dates != nil {
		f.Dates = *u.Dates
	}
	if u.Ordering != nil {
		f.Ordering = *u.Ordering
	}
	if u.FavoritesOnly != nil {
		f.FavoritesOnly = *u.FavoritesOnly
	}
	if u.PageSize != nil && *u.PageSize > 0 {
		f.PageSize = *u.PageSize
	}
	f.Page = 1
	return f
}
