package game

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
)

// MockCatalog is a mock implementation of Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FetchGames(ctx context.Context, filters Filters) ([]Game, error) {
	args := m.Called(ctx, filters)
	games, _ := args.Get(0).([]Game)
	return games, args.Error(1)
}

func (m *MockCatalog) FetchUpcoming(ctx context.Context, windowDays int) ([]Game, error) {
	args := m.Called(ctx, windowDays)
	games, _ := args.Get(0).([]Game)
	return games, args.Error(1)
}

func (m *MockCatalog) AddFavorite(ctx context.Context, gameID int, name string) error {
	args := m.Called(ctx, gameID, name)
	return args.Error(0)
}

func (m *MockCatalog) RemoveFavorite(ctx context.Context, gameID int) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockCatalog) Vote(ctx context.Context, gameID int, vote VoteType) error {
	args := m.Called(ctx, gameID, vote)
	return args.Error(0)
}

func (m *MockCatalog) FetchStats(ctx context.Context, gameID int) (*VoteStats, error) {
	args := m.Called(ctx, gameID)
	stats, _ := args.Get(0).(*VoteStats)
	return stats, args.Error(1)
}

// memoryStore is an in-memory KeyValue for local catalog tests
type memoryStore struct {
	values map[string]any
	failOn string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]any)}
}

func (s *memoryStore) Get(key string, dest any) (bool, error) {
	v, ok := s.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]int:
		*d = append([]int(nil), v.([]int)...)
	case *map[string]VoteType:
		src := v.(map[string]VoteType)
		*d = make(map[string]VoteType, len(src))
		for k, vt := range src {
			(*d)[k] = vt
		}
	}
	return true, nil
}

func (s *memoryStore) Set(key string, value any) error {
	if key == s.failOn {
		return errStoreUnavailable
	}
	s.values[key] = value
	return nil
}

var errStoreUnavailable = errors.New("store unavailable")
