package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/exp/slices"

	"game-tracker-go/internal/game/voting"
)

var (
	ErrLoadFailed           = errors.New("failed to load games")
	ErrMutationFailed       = errors.New("failed to update game")
	ErrFavoriteUpdateFailed = fmt.Errorf("%w: favorite", ErrMutationFailed)
	ErrVoteFailed           = fmt.Errorf("%w: vote", ErrMutationFailed)
	ErrStaleResponse        = errors.New("response superseded by a newer request")
)

// User-facing messages, keyed by the sentinel they describe
var errorMessages = map[error]string{
	ErrLoadFailed:           "Failed to load games. Please try again.",
	ErrFavoriteUpdateFailed: "Failed to update favorites. Please try again.",
	ErrVoteFailed:           "Failed to record your vote. Please try again.",
}

// Snapshot is a consistent copy of the state for rendering
type Snapshot struct {
	Games    []Game
	Loading  bool
	Error    string
	Filters  Filters
	Mode     Mode
	ViewMode ViewMode
	// Empty is set when the last load succeeded with zero games. It is not
	// an error.
	Empty bool
}

// State owns the displayed game list, the filter criteria and the
// upcoming/filtered mode for one session. All mutations go through the
// catalog and are applied locally only after the catalog acknowledges them.
type State struct {
	catalog Catalog
	clock   clockwork.Clock
	logger  *slog.Logger

	mu         sync.Mutex
	games      []Game
	loading    bool
	err        error
	filters    Filters
	mode       Mode
	viewMode   ViewMode
	generation uint64
}

// Option configures a State
type Option func(*State)

// WithClock sets the clock used for "now"
func WithClock(clock clockwork.Clock) Option {
	return func(s *State) { s.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) { s.logger = logger }
}

// NewState creates the session state backed by catalog. It starts in
// upcoming mode with default filters and an empty list.
func NewState(catalog Catalog, opts ...Option) *State {
	s := &State{
		catalog:  catalog,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		filters:  DefaultFilters(),
		mode:     ModeUpcoming,
		viewMode: ViewGrid,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFiltered exits upcoming mode and replaces the list with the catalog's
// result for the current filters.
func (s *State) LoadFiltered(ctx context.Context) error {
	s.mu.Lock()
	s.mode = ModeFiltered
	filters := s.filters
	gen := s.beginLoadLocked()
	s.mu.Unlock()

	games, err := s.catalog.FetchGames(ctx, filters)
	return s.finishLoad(gen, games, err)
}

// LoadUpcoming enters upcoming mode and replaces the list with games
// releasing within windowDays from now. A non-positive window uses the
// default of 365 days.
func (s *State) LoadUpcoming(ctx context.Context, windowDays int) error {
	if windowDays <= 0 {
		windowDays = DefaultUpcomingWindow
	}

	s.mu.Lock()
	s.mode = ModeUpcoming
	gen := s.beginLoadLocked()
	s.mu.Unlock()

	games, err := s.catalog.FetchUpcoming(ctx, windowDays)
	return s.finishLoad(gen, games, err)
}

func (s *State) beginLoadLocked() uint64 {
	s.generation++
	s.loading = true
	s.err = nil
	return s.generation
}

func (s *State) finishLoad(gen uint64, games []Game, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale games response", "generation", gen, "current", s.generation)
		return ErrStaleResponse
	}

	s.loading = false
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		s.logger.Warn("load games failed", "mode", s.mode, "error", err)
		return s.err
	}

	s.games = cloneGames(games)
	s.logger.Debug("games loaded", "mode", s.mode, "count", len(s.games))
	return nil
}

// UpdateFilters merges u into the filters, resets to page 1, exits upcoming
// mode and reloads.
func (s *State) UpdateFilters(ctx context.Context, u FilterUpdate) error {
	s.mu.Lock()
	s.filters = s.filters.Merge(u)
	s.mu.Unlock()

	return s.LoadFiltered(ctx)
}

// SetPage moves to another page of the filtered feed and reloads
func (s *State) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.filters.Page = page
	s.mu.Unlock()

	return s.LoadFiltered(ctx)
}

// ClearFilters restores the default filters. The mode is left unchanged.
func (s *State) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultFilters()
}

// SetViewMode switches between grid and list layout
func (s *State) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
}

// ToggleFavorite asks the catalog for the opposite of the game's current
// favorite status and flips the local flag once it succeeds. Unknown games
// are ignored.
func (s *State) ToggleFavorite(ctx context.Context, gameID int) error {
	s.mu.Lock()
	g, ok := s.findLocked(gameID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	var err error
	if g.IsFavorite {
		err = s.catalog.RemoveFavorite(ctx, gameID)
	} else {
		err = s.catalog.AddFavorite(ctx, gameID, g.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrFavoriteUpdateFailed, err)
		s.logger.Warn("toggle favorite failed", "game_id", gameID, "error", err)
		return s.err
	}

	s.err = nil
	if i := s.indexLocked(gameID); i >= 0 {
		s.games[i].IsFavorite = !g.IsFavorite
	}
	return nil
}

// CastVote votes on a game. Voting the same direction as the current vote
// retracts it; voting the other direction switches it. Local vote stats are
// adjusted once the catalog accepts the vote. Unknown games are ignored.
func (s *State) CastVote(ctx context.Context, gameID int, vote VoteType) error {
	if !vote.Valid() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.err = fmt.Errorf("%w: invalid vote type %q", ErrVoteFailed, vote)
		return s.err
	}

	s.mu.Lock()
	g, ok := s.findLocked(gameID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	next := VoteType(voting.Next(voting.Vote(g.UserVote), voting.Vote(vote)))

	err := s.catalog.Vote(ctx, gameID, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrVoteFailed, err)
		s.logger.Warn("cast vote failed", "game_id", gameID, "vote", vote, "error", err)
		return s.err
	}

	s.err = nil
	i := s.indexLocked(gameID)
	if i < 0 {
		return nil
	}
	// The record may have changed while the request was in flight. Its
	// current vote is what the stats already count.
	from := s.games[i].UserVote
	s.games[i].UserVote = next
	if from != next {
		s.games[i].VoteStats = applyVote(s.games[i].VoteStats, gameID, from, next)
	}
	return nil
}

func applyVote(stats *VoteStats, gameID int, from, to VoteType) *VoteStats {
	tally := voting.Tally{}
	if stats != nil {
		tally = voting.Tally{Up: stats.Upvotes, Down: stats.Downvotes}
	}
	tally = tally.Apply(voting.Vote(from), voting.Vote(to))
	return &VoteStats{
		GameID:     gameID,
		Upvotes:    tally.Up,
		Downvotes:  tally.Down,
		TotalVotes: tally.Total(),
	}
}

// RefreshStats replaces a game's local vote stats with the catalog's
func (s *State) RefreshStats(ctx context.Context, gameID int) error {
	stats, err := s.catalog.FetchStats(ctx, gameID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		return s.err
	}

	s.err = nil
	if i := s.indexLocked(gameID); i >= 0 && stats != nil {
		refreshed := *stats
		refreshed.TotalVotes = refreshed.Upvotes + refreshed.Downvotes
		s.games[i].VoteStats = &refreshed
	}
	return nil
}

func (s *State) indexLocked(gameID int) int {
	return slices.IndexFunc(s.games, func(g Game) bool { return g.ID == gameID })
}

func (s *State) findLocked(gameID int) (Game, bool) {
	i := s.indexLocked(gameID)
	if i < 0 {
		return Game{}, false
	}
	return s.games[i], true
}

// Games returns a copy of the displayed list
func (s *State) Games() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGames(s.games)
}

// Snapshot returns a copy of the whole state
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Games:    cloneGames(s.games),
		Loading:  s.loading,
		Error:    s.errorMessageLocked(),
		Filters:  s.filters,
		Mode:     s.mode,
		ViewMode: s.viewMode,
		Empty:    !s.loading && s.err == nil && len(s.games) == 0,
	}
}

// Filters returns the current filter criteria
func (s *State) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Mode returns the current mode
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Loading reports whether a load is in flight
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last error, or nil
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrorMessage returns the human-readable form of the last error, or ""
func (s *State) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessageLocked()
}

func (s *State) errorMessageLocked() string {
	if s.err == nil {
		return ""
	}
	for sentinel, msg := range errorMessages {
		if errors.Is(s.err, sentinel) {
			return msg
		}
	}
	return s.err.Error()
}

// IsFavorite reports whether the game is marked favorite
func (s *State) IsFavorite(gameID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.findLocked(gameID)
	return ok && g.IsFavorite
}

// UserVote returns the user's vote on the game
func (s *State) UserVote(gameID int) VoteType {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, _ := s.findLocked(gameID)
	return g.UserVote
}

// VoteCount returns the number of votes of the given type, 0 if the game or
// its stats are unknown
func (s *State) VoteCount(gameID int, vote VoteType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.findLocked(gameID)
	if !ok || g.VoteStats == nil {
		return 0
	}
	switch vote {
	case VoteUp:
		return g.VoteStats.Upvotes
	case VoteDown:
		return g.VoteStats.Downvotes
	}
	return 0
}

// FavoriteGames returns the favorites in the displayed list
func (s *State) FavoriteGames() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	var favorites []Game
	for _, g := range s.games {
		if g.IsFavorite {
			favorites = append(favorites, g.Clone())
		}
	}
	return favorites
}

// UpcomingCount returns how many displayed games release after now
func (s *State) UpcomingCount() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, g := range s.games {
		if !g.Released.IsZero() && g.Released.After(now) {
			count++
		}
	}
	return count
}

// AverageRating returns the mean positive rating rounded to one decimal
func (s *State) AverageRating() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ratings := make([]float64, 0, len(s.games))
	for _, g := range s.games {
		ratings = append(ratings, g.RatingOrZero())
	}
	return voting.AverageRating(ratings)
}

// TotalVotes sums the total votes of the displayed games
func (s *State) TotalVotes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, g := range s.games {
		if g.VoteStats != nil {
			total += g.VoteStats.TotalVotes
		}
	}
	return total
}

func cloneGames(games []Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}
