package game

import (
	"bytes"
	"encoding/json"
	"time"
)

// VoteType represents a user's vote on a game. The zero value means no vote.
type VoteType string

const (
	VoteNone VoteType = ""
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Valid reports whether v is a castable vote (upvote or downvote).
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// MarshalJSON encodes VoteNone as null.
func (v VoteType) MarshalJSON() ([]byte, error) {
	if v == VoteNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

func (v *VoteType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = VoteNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = VoteType(s)
	return nil
}

// Mode represents which feed the state store is showing
type Mode string

const (
	ModeUpcoming Mode = "upcoming"
	ModeFiltered Mode = "filtered"
)

// ViewMode represents how the list is laid out
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

const releaseDateLayout = "2006-01-02"

// ReleaseDate is a calendar date encoded as YYYY-MM-DD. The zero value means
// the release date is unknown (TBA).
type ReleaseDate struct {
	time.Time
}

// ParseReleaseDate parses a YYYY-MM-DD string.
func ParseReleaseDate(s string) (ReleaseDate, error) {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return ReleaseDate{}, err
	}
	return ReleaseDate{Time: t}, nil
}

// MustReleaseDate is like ParseReleaseDate but panics on malformed input.
// Only meant for static data.
func MustReleaseDate(s string) ReleaseDate {
	d, err := ParseReleaseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d ReleaseDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(releaseDateLayout)
}

func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(releaseDateLayout))
}

// UnmarshalJSON accepts null, empty strings and unparseable values ("TBA")
// as an unknown date.
func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	*d = ReleaseDate{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseReleaseDate(s); err == nil {
		*d = parsed
	}
	return nil
}

// Platform is a RAWG platform reference
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// PlatformInfo wraps a platform the way the RAWG API nests it
type PlatformInfo struct {
	Platform Platform `json:"platform"`
}

// Genre is a RAWG genre reference
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// VoteStats holds the aggregate votes for a game. TotalVotes is always
// Upvotes + Downvotes.
type VoteStats struct {
	GameID     int `json:"game_id"`
	Upvotes    int `json:"upvotes"`
	Downvotes  int `json:"downvotes"`
	TotalVotes int `json:"total_votes"`
}

// Game represents a catalog entry enriched with user-specific data
type Game struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug,omitempty"`
	BackgroundImage string         `json:"background_image,omitempty"`
	Released        ReleaseDate    `json:"released"`
	TBA             bool           `json:"tba"`
	Rating          *float64       `json:"rating,omitempty"`
	RatingsCount    *int           `json:"ratings_count,omitempty"`
	Metacritic      *int           `json:"metacritic,omitempty"`
	Platforms       []PlatformInfo `json:"platforms,omitempty"`
	Genres          []Genre        `json:"genres,omitempty"`
	Description     string         `json:"description_raw,omitempty"`
	IsFavorite      bool           `json:"is_favorite"`
	UserVote        VoteType       `json:"user_vote"`
	VoteStats       *VoteStats     `json:"vote_stats,omitempty"`
}

// PlatformNames returns the names of the platforms the game ships on
func (g Game) PlatformNames() []string {
	names := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		names = append(names, p.Platform.Name)
	}
	return names
}

// GenreNames returns the names of the game's genres
func (g Game) GenreNames() []string {
	names := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		names = append(names, genre.Name)
	}
	return names
}

// HasPlatform reports whether the game ships on the named platform
func (g Game) HasPlatform(name string) bool {
	for _, p := range g.Platforms {
		if p.Platform.Name == name {
			return true
		}
	}
	return false
}

// HasGenre reports whether the game belongs to the named genre
func (g Game) HasGenre(name string) bool {
	for _, genre := range g.Genres {
		if genre.Name == name {
			return true
		}
	}
	return false
}

// RatingOrZero returns the rating, treating a missing one as 0
func (g Game) RatingOrZero() float64 {
	if g.Rating == nil {
		return 0
	}
	return *g.Rating
}

// MetacriticOrZero returns the metacritic score, treating a missing one as 0
func (g Game) MetacriticOrZero() int {
	if g.Metacritic == nil {
		return 0
	}
	return *g.Metacritic
}

// Clone returns a deep copy so callers can't mutate store-owned records
func (g Game) Clone() Game {
	c := g
	if g.Rating != nil {
		r := *g.Rating
		c.Rating = &r
	}
	if g.RatingsCount != nil {
		n := *g.RatingsCount
		c.RatingsCount = &n
	}
	if g.Metacritic != nil {
		m := *g.Metacritic
		c.Metacritic = &m
	}
	if g.VoteStats != nil {
		s := *g.VoteStats
		c.VoteStats = &s
	}
	c.Platforms = append([]PlatformInfo(nil), g.Platforms...)
	c.Genres = append([]Genre(nil), g.Genres...)
	return c
}

// Favorite is a persisted favorite of a user
type Favorite struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	GameID    int       `json:"game_id" db:"game_id"`
	GameName  string    `json:"game_name" db:"game_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Vote is a persisted vote of a user
type Vote struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	GameID    int       `json:"game_id" db:"game_id"`
	VoteType  VoteType  `json:"vote_type" db:"vote_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EventType represents the kinds of events the catalog broadcasts
type EventType string

const (
	EventTypeVoteChanged     EventType = "vote_changed"
	EventTypeFavoriteAdded   EventType = "favorite_added"
	EventTypeFavoriteRemoved EventType = "favorite_removed"
)

// Event is a change notification pushed to live subscribers
type Event struct {
	Type      EventType  `json:"type"`
	GameID    int        `json:"game_id"`
	UserID    string     `json:"user_id,omitempty"`
	Stats     *VoteStats `json:"stats,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
