package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/game/options"
	"game-tracker-go/internal/rawg"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrInvalidVote      = errors.New("vote type must be 'upvote' or 'downvote'")
	ErrInvalidYear      = errors.New("year must be 2025, 2026 or both")
	ErrInvalidRequest   = errors.New("invalid request")
)

const (
	MinDaysAhead = 1
	MaxDaysAhead = 1095
)

// Most status checks returned by ListStatusChecks
const statusCheckLimit = 1000

// RAWG's page size cap, used to fill the upcoming feed
const upcomingPageSize = rawg.MaxPageSize

type CatalogService interface {
	ListGames(ctx context.Context, userID string, q rawg.Query) ([]game.Game, error)
	Upcoming(ctx context.Context, userID string, daysAhead int, year string) ([]game.Game, error)
	GetGame(ctx context.Context, userID string, gameID int) (*game.Game, error)
	Stats(ctx context.Context, gameID int) (*game.VoteStats, error)

	AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error)
	RemoveFavorite(ctx context.Context, userID string, gameID int) error
	ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error)

	// Vote sets or, with game.VoteNone, retracts the user's vote
	Vote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, *game.VoteStats, error)

	CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error)
	ListStatusChecks(ctx context.Context) ([]StatusCheck, error)
}

type catalogService struct {
	upstream rawg.Upstream
	repo     Repository
	hub      *Hub
	clock    clockwork.Clock
	logger   *slog.Logger
}

func NewCatalogService(upstream rawg.Upstream, repo Repository, hub *Hub, clock clockwork.Clock, logger *slog.Logger) CatalogService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		upstream: upstream,
		repo:     repo,
		hub:      hub,
		clock:    clock,
		logger:   logger,
	}
}

func (s *catalogService) ListGames(ctx context.Context, userID string, q rawg.Query) ([]game.Game, error) {
	if q.Ordering != "" {
		if _, err := options.ParseOrdering(string(q.Ordering)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	resp, err := s.upstream.GetGames(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}
	return s.enrich(ctx, userID, resp.Results)
}

func (s *catalogService) today() time.Time {
	now := s.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// upcomingRange resolves the release window. A year pins the window to that
// calendar year ("both" spans through the end of 2026) and never starts
// before today; without one the window is daysAhead from today.
func upcomingRange(today time.Time, daysAhead int, year string) (time.Time, time.Time, error) {
	yearEnd := func(y int) time.Time { return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC) }
	yearStart := func(y int) time.Time {
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		if today.After(start) {
			return today
		}
		return start
	}

	switch year {
	case "":
		if daysAhead < MinDaysAhead || daysAhead > MaxDaysAhead {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: days_ahead must be between %d and %d", ErrInvalidRequest, MinDaysAhead, MaxDaysAhead)
		}
		return today, today.AddDate(0, 0, daysAhead), nil
	case "2025":
		return yearStart(2025), yearEnd(2025), nil
	case "2026":
		return yearStart(2026), yearEnd(2026), nil
	case "both":
		return today, yearEnd(2026), nil
	}
	return time.Time{}, time.Time{}, ErrInvalidYear
}

func (s *catalogService) Upcoming(ctx context.Context, userID string, daysAhead int, year string) ([]game.Game, error) {
	today := s.today()
	start, end, err := upcomingRange(today, daysAhead, year)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return []game.Game{}, nil
	}

	resp, err := s.upstream.GetGames(ctx, rawg.Query{
		Dates:    start.Format("2006-01-02") + "," + end.Format("2006-01-02"),
		Ordering: options.OrderReleased,
		PageSize: upcomingPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming games: %w", err)
	}

	// RAWG's date filter is loose: TBA entries and past releases slip through
	upcoming := make([]game.Game, 0, len(resp.Results))
	for _, g := range resp.Results {
		if g.Released.IsZero() || g.Released.Before(today) {
			continue
		}
		upcoming = append(upcoming, g)
	}
	return s.enrich(ctx, userID, upcoming)
}

func (s *catalogService) GetGame(ctx context.Context, userID string, gameID int) (*game.Game, error) {
	g, err := s.upstream.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game: %w", err)
	}
	enriched, err := s.enrich(ctx, userID, []game.Game{*g})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// Stats returns the game's vote counts; a game with no votes has all zero
func (s *catalogService) Stats(ctx context.Context, gameID int) (*game.VoteStats, error) {
	stats, err := s.repo.VoteStats(ctx, []int{gameID})
	if err != nil {
		return nil, err
	}
	st, ok := stats[gameID]
	if !ok {
		st = game.VoteStats{GameID: gameID}
	}
	return &st, nil
}

// enrich attaches the user's favorite flag and vote and the vote totals
func (s *catalogService) enrich(ctx context.Context, userID string, games []game.Game) ([]game.Game, error) {
	ids := make([]int, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}

	stats, err := s.repo.VoteStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	data, err := s.repo.UserData(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]game.Game, len(games))
	for i, g := range games {
		st, ok := stats[g.ID]
		if !ok {
			st = game.VoteStats{GameID: g.ID}
		}
		g.IsFavorite = data.Favorites[g.ID]
		g.UserVote = data.Votes[g.ID]
		g.VoteStats = &st
		enriched[i] = g
	}
	return enriched, nil
}

func (s *catalogService) AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error) {
	if userID == "" || gameID <= 0 {
		return nil, fmt.Errorf("%w: user_id and game_id are required", ErrInvalidRequest)
	}

	favorite, err := s.repo.AddFavorite(ctx, userID, gameID, gameName)
	if err != nil {
		return nil, err
	}

	s.publish(game.Event{Type: game.EventTypeFavoriteAdded, GameID: gameID, UserID: userID})
	return favorite, nil
}

func (s *catalogService) RemoveFavorite(ctx context.Context, userID string, gameID int) error {
	removed, err := s.repo.RemoveFavorite(ctx, userID, gameID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrFavoriteNotFound
	}

	s.publish(game.Event{Type: game.EventTypeFavoriteRemoved, GameID: gameID, UserID: userID})
	return nil
}

func (s *catalogService) ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error) {
	return s.repo.ListFavorites(ctx, userID)
}

func (s *catalogService) Vote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, *game.VoteStats, error) {
	if vote != game.VoteNone && !vote.Valid() {
		return nil, nil, ErrInvalidVote
	}
	if userID == "" || gameID <= 0 {
		return nil, nil, fmt.Errorf("%w: user_id and game_id are required", ErrInvalidRequest)
	}

	stored, err := s.repo.SetVote(ctx, userID, gameID, vote)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.Stats(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	s.publish(game.Event{Type: game.EventTypeVoteChanged, GameID: gameID, UserID: userID, Stats: stats})
	return stored, stats, nil
}

func (s *catalogService) publish(event game.Event) {
	if s.hub == nil {
		return
	}
	event.Timestamp = s.clock.Now().UTC()
	n := s.hub.Publish(event)
	s.logger.Debug("event published", "type", event.Type, "game_id", event.GameID, "subscribers", n)
}

func (s *catalogService) CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, fmt.Errorf("%w: client_name is required", ErrInvalidRequest)
	}
	return s.repo.CreateStatusCheck(ctx, clientName)
}

func (s *catalogService) ListStatusChecks(ctx context.Context) ([]StatusCheck, error) {
	return s.repo.ListStatusChecks(ctx, statusCheckLimit)
}
