package identity

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	values map[string]string
	sets   int
	err    error
}

func (s *mapStore) Get(key string, dest any) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	v, ok := s.values[key]
	if ok {
		*dest.(*string) = v
	}
	return ok, nil
}

func (s *mapStore) Set(key string, value any) error {
	if s.err != nil {
		return s.err
	}
	s.sets++
	s.values[key] = value.(string)
	return nil
}

var idPattern = regexp.MustCompile(`^user_\d+_[0-9a-f]{9}$`)

func TestUserIDCreatedOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1760486400000))
	store := &mapStore{values: map[string]string{}}
	provider := NewProvider(store, clock)

	first, err := provider.UserID()
	require.NoError(t, err)
	assert.Regexp(t, idPattern, first)
	assert.Contains(t, first, "user_1760486400000_")
	assert.Equal(t, first, store.values[StorageKey])

	second, err := provider.UserID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.sets)

	again, err := NewProvider(store, clock).UserID()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, store.sets)
}

func TestUserIDReadsExisting(t *testing.T) {
	store := &mapStore{values: map[string]string{StorageKey: "user_42_abcdefghi"}}

	id, err := NewProvider(store, nil).UserID()

	require.NoError(t, err)
	assert.Equal(t, "user_42_abcdefghi", id)
	assert.Zero(t, store.sets)
}

func TestUserIDStoreFailure(t *testing.T) {
	store := &mapStore{values: map[string]string{}, err: errors.New("disk full")}

	_, err := NewProvider(store, nil).UserID()

	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = WithUserID(ctx, "user_1_abc")
	assert.Equal(t, "user_1_abc", UserIDFromContext(ctx))
}
