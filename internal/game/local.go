package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"game-tracker-go/internal/game/options"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Keys under which the local catalog persists user data
const (
	FavoritesKey = "gameFavorites"
	VotesKey     = "gameVotes"
)

// KeyValue is the persistence the local catalog needs for favorites and votes
type KeyValue interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
}

// LocalCatalog serves a fixed game list from memory. It is the offline
// backing for State: filtering, sorting and pagination run locally and the
// only voter is the local user, so a game's stats reflect that user's vote.
type LocalCatalog struct {
	clock clockwork.Clock
	store KeyValue

	mu        sync.Mutex
	games     []Game
	favorites map[int]bool
	votes     map[int]VoteType
}

// NewLocalCatalog creates a catalog over games. store may be nil, in which
// case favorites and votes only live as long as the catalog.
func NewLocalCatalog(games []Game, store KeyValue, clock clockwork.Clock) (*LocalCatalog, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &LocalCatalog{
		clock:     clock,
		store:     store,
		games:     cloneGames(games),
		favorites: make(map[int]bool),
		votes:     make(map[int]VoteType),
	}
	if err := c.restore(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *LocalCatalog) restore() error {
	if c.store == nil {
		return nil
	}

	var favorites []int
	if _, err := c.store.Get(FavoritesKey, &favorites); err != nil {
		return fmt.Errorf("failed to restore favorites: %w", err)
	}
	for _, id := range favorites {
		c.favorites[id] = true
	}

	votes := map[string]VoteType{}
	if _, err := c.store.Get(VotesKey, &votes); err != nil {
		return fmt.Errorf("failed to restore votes: %w", err)
	}
	for key, vote := range votes {
		id, err := strconv.Atoi(key)
		if err != nil || !vote.Valid() {
			continue
		}
		c.votes[id] = vote
	}
	return nil
}

func (c *LocalCatalog) FetchGames(ctx context.Context, filters Filters) ([]Game, error) {
	c.mu.Lock()
	annotated := c.annotatedLocked()
	c.mu.Unlock()

	result := Apply(annotated, filters)
	return Paginate(result, filters.Page, filters.PageSize), nil
}

func (c *LocalCatalog) FetchUpcoming(ctx context.Context, windowDays int) ([]Game, error) {
	if windowDays <= 0 {
		windowDays = DefaultUpcomingWindow
	}
	now := c.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	c.mu.Lock()
	annotated := c.annotatedLocked()
	c.mu.Unlock()

	window := Filters{
		Platform: options.All,
		Genre:    options.All,
		Ordering: options.OrderReleased,
		Dates: DateRange{
			Start: ReleaseDate{Time: today},
			End:   ReleaseDate{Time: today.AddDate(0, 0, windowDays)},
		},
	}
	upcoming := make([]Game, 0, len(annotated))
	for _, g := range Apply(annotated, window) {
		if !g.Released.IsZero() {
			upcoming = append(upcoming, g)
		}
	}
	return upcoming, nil
}

func (c *LocalCatalog) AddFavorite(ctx context.Context, gameID int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.knownLocked(gameID) {
		return ErrGameNotFound
	}
	if c.favorites[gameID] {
		return nil
	}

	next := copyFavorites(c.favorites)
	next[gameID] = true
	if err := c.saveFavorites(next); err != nil {
		return err
	}
	c.favorites = next
	return nil
}

func (c *LocalCatalog) RemoveFavorite(ctx context.Context, gameID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.favorites[gameID] {
		return ErrFavoriteNotFound
	}

	next := copyFavorites(c.favorites)
	delete(next, gameID)
	if err := c.saveFavorites(next); err != nil {
		return err
	}
	c.favorites = next
	return nil
}

func (c *LocalCatalog) Vote(ctx context.Context, gameID int, vote VoteType) error {
	if vote != VoteNone && !vote.Valid() {
		return fmt.Errorf("invalid vote type %q", vote)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.knownLocked(gameID) {
		return ErrGameNotFound
	}

	next := make(map[int]VoteType, len(c.votes)+1)
	for id, v := range c.votes {
		next[id] = v
	}
	if vote == VoteNone {
		delete(next, gameID)
	} else {
		next[gameID] = vote
	}
	if err := c.saveVotes(next); err != nil {
		return err
	}
	c.votes = next
	return nil
}

func (c *LocalCatalog) FetchStats(ctx context.Context, gameID int) (*VoteStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.knownLocked(gameID) {
		return nil, ErrGameNotFound
	}
	return c.statsLocked(gameID), nil
}

func (c *LocalCatalog) statsLocked(gameID int) *VoteStats {
	stats := &VoteStats{GameID: gameID}
	switch c.votes[gameID] {
	case VoteUp:
		stats.Upvotes = 1
	case VoteDown:
		stats.Downvotes = 1
	}
	stats.TotalVotes = stats.Upvotes + stats.Downvotes
	return stats
}

func (c *LocalCatalog) annotatedLocked() []Game {
	out := make([]Game, len(c.games))
	for i, g := range c.games {
		g = g.Clone()
		g.IsFavorite = c.favorites[g.ID]
		g.UserVote = c.votes[g.ID]
		g.VoteStats = c.statsLocked(g.ID)
		out[i] = g
	}
	return out
}

func (c *LocalCatalog) knownLocked(gameID int) bool {
	for _, g := range c.games {
		if g.ID == gameID {
			return true
		}
	}
	return false
}

func (c *LocalCatalog) saveFavorites(favorites map[int]bool) error {
	if c.store == nil {
		return nil
	}
	ids := make([]int, 0, len(favorites))
	for id := range favorites {
		ids = append(ids, id)
	}
	if err := c.store.Set(FavoritesKey, ids); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func (c *LocalCatalog) saveVotes(votes map[int]VoteType) error {
	if c.store == nil {
		return nil
	}
	byKey := make(map[string]VoteType, len(votes))
	for id, v := range votes {
		byKey[strconv.Itoa(id)] = v
	}
	if err := c.store.Set(VotesKey, byKey); err != nil {
		return fmt.Errorf("failed to save votes: %w", err)
	}
	return nil
}

func copyFavorites(in map[int]bool) map[int]bool {
	out := make(map[int]bool, len(in)+1)
	for id, v := range in {
		out[id] = v
	}
	return out
}
