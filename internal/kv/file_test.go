package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "store.json")

	store, err := Open(path)
	require.NoError(t, err)

	var favorites []int
	found, err := store.Get("gameFavorites", &favorites)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("gameFavorites", []int{3, 7}))
	require.NoError(t, store.Set("gameTrackerUserId", "user_1_abc"))

	reopened, err := Open(path)
	require.NoError(t, err)

	found, err = reopened.Get("gameFavorites", &favorites)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{3, 7}, favorites)

	var userID string
	_, err = reopened.Get("gameTrackerUserId", &userID)
	require.NoError(t, err)
	assert.Equal(t, "user_1_abc", userID)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestFileStoreDecodeMismatch(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	require.NoError(t, store.Set("gameFavorites", "not a list"))

	var favorites []int
	found, err := store.Get("gameFavorites", &favorites)
	assert.True(t, found)
	assert.Error(t, err)
}
