package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/rawg"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error) {
	args := m.Called(ctx, userID, gameID, gameName)
	favorite, _ := args.Get(0).(*game.Favorite)
	return favorite, args.Error(1)
}

func (m *MockRepository) RemoveFavorite(ctx context.Context, userID string, gameID int) (bool, error) {
	args := m.Called(ctx, userID, gameID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error) {
	args := m.Called(ctx, userID)
	favorites, _ := args.Get(0).([]game.Favorite)
	return favorites, args.Error(1)
}

func (m *MockRepository) SetVote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, error) {
	args := m.Called(ctx, userID, gameID, vote)
	v, _ := args.Get(0).(*game.Vote)
	return v, args.Error(1)
}

func (m *MockRepository) VoteStats(ctx context.Context, gameIDs []int) (map[int]game.VoteStats, error) {
	args := m.Called(ctx, gameIDs)
	stats, _ := args.Get(0).(map[int]game.VoteStats)
	return stats, args.Error(1)
}

func (m *MockRepository) UserData(ctx context.Context, userID string, gameIDs []int) (*UserData, error) {
	args := m.Called(ctx, userID, gameIDs)
	data, _ := args.Get(0).(*UserData)
	return data, args.Error(1)
}

func (m *MockRepository) CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error) {
	args := m.Called(ctx, clientName)
	check, _ := args.Get(0).(*StatusCheck)
	return check, args.Error(1)
}

func (m *MockRepository) ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error) {
	args := m.Called(ctx, limit)
	checks, _ := args.Get(0).([]StatusCheck)
	return checks, args.Error(1)
}

// MockUpstream is a mock implementation of rawg.Upstream
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) GetGames(ctx context.Context, q rawg.Query) (*rawg.GamesResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*rawg.GamesResponse)
	return resp, args.Error(1)
}

func (m *MockUpstream) GetGame(ctx context.Context, id int) (*game.Game, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*game.Game)
	return g, args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListGames(ctx context.Context, userID string, q rawg.Query) ([]game.Game, error) {
	args := m.Called(ctx, userID, q)
	games, _ := args.Get(0).([]game.Game)
	return games, args.Error(1)
}

func (m *MockCatalogService) Upcoming(ctx context.Context, userID string, daysAhead int, year string) ([]game.Game, error) {
	args := m.Called(ctx, userID, daysAhead, year)
	games, _ := args.Get(0).([]game.Game)
	return games, args.Error(1)
}

func (m *MockCatalogService) GetGame(ctx context.Context, userID string, gameID int) (*game.Game, error) {
	args := m.Called(ctx, userID, gameID)
	g, _ := args.Get(0).(*game.Game)
	return g, args.Error(1)
}

func (m *MockCatalogService) Stats(ctx context.Context, gameID int) (*game.VoteStats, error) {
	args := m.Called(ctx, gameID)
	stats, _ := args.Get(0).(*game.VoteStats)
	return stats, args.Error(1)
}

func (m *MockCatalogService) AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error) {
	args := m.Called(ctx, userID, gameID, gameName)
	favorite, _ := args.Get(0).(*game.Favorite)
	return favorite, args.Error(1)
}

func (m *MockCatalogService) RemoveFavorite(ctx context.Context, userID string, gameID int) error {
	args := m.Called(ctx, userID, gameID)
	return args.Error(0)
}

func (m *MockCatalogService) ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error) {
	args := m.Called(ctx, userID)
	favorites, _ := args.Get(0).([]game.Favorite)
	return favorites, args.Error(1)
}

func (m *MockCatalogService) Vote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, *game.VoteStats, error) {
	args := m.Called(ctx, userID, gameID, vote)
	v, _ := args.Get(0).(*game.Vote)
	stats, _ := args.Get(1).(*game.VoteStats)
	return v, stats, args.Error(2)
}

func (m *MockCatalogService) CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error) {
	args := m.Called(ctx, clientName)
	check, _ := args.Get(0).(*StatusCheck)
	return check, args.Error(1)
}

func (m *MockCatalogService) ListStatusChecks(ctx context.Context) ([]StatusCheck, error) {
	args := m.Called(ctx)
	checks, _ := args.Get(0).([]StatusCheck)
	return checks, args.Error(1)
}
