package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/game/options"
)

type fixedUser string

func (u fixedUser) UserID() (string, error) { return string(u), nil }

type brokenUser struct{}

func (brokenUser) UserID() (string, error) { return "", errors.New("no store") }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, fixedUser("user_1_abcdefghi"), time.Second)
}

func TestFilterParams(t *testing.T) {
	tests := []struct {
		name    string
		filters func(*game.Filters)
		want    map[string]string
	}{
		{
			name:    "Defaults",
			filters: func(f *game.Filters) {},
			want:    map[string]string{"ordering": "released", "page": "1", "page_size": "20"},
		},
		{
			name: "Selectors and search",
			filters: func(f *game.Filters) {
				f.Search = "  mario "
				f.Platform = "Nintendo Switch"
				f.Genre = "Platformer"
				f.Ordering = options.OrderName
			},
			want: map[string]string{
				"search": "mario", "platform": "Nintendo Switch", "genre": "Platformer",
				"ordering": "name", "page": "1", "page_size": "20",
			},
		},
		{
			name: "Open ended date range",
			filters: func(f *game.Filters) {
				f.Dates = game.DateRange{Start: game.MustReleaseDate("2026-10-01")}
			},
			want: map[string]string{
				"dates": "2026-10-01,2100-12-31", "ordering": "released", "page": "1", "page_size": "20",
			},
		},
		{
			name: "Open start",
			filters: func(f *game.Filters) {
				f.Dates = game.DateRange{End: game.MustReleaseDate("2026-12-31")}
			},
			want: map[string]string{
				"dates": "1970-01-01,2026-12-31", "ordering": "released", "page": "1", "page_size": "20",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := game.DefaultFilters()
			tt.filters(&f)
			params := FilterParams(f)
			got := map[string]string{}
			for k := range params {
				got[k] = params.Get(k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchGamesFavoritesOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games", r.URL.Path)
		assert.Equal(t, "user_1_abcdefghi", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode([]game.Game{
			{ID: 1, Name: "One", IsFavorite: true},
			{ID: 2, Name: "Two"},
			{ID: 3, Name: "Three", IsFavorite: true, UserVote: game.VoteUp},
		})
	})

	f := game.DefaultFilters()
	all, err := client.FetchGames(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	f.FavoritesOnly = true
	favorites, err := client.FetchGames(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, game.VoteUp, favorites[1].UserVote)
}

func TestFetchUpcoming(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/upcoming", r.URL.Path)
		assert.Equal(t, "365", r.URL.Query().Get("days_ahead"))
		w.Write([]byte(`[{"id": 8, "name": "Spider-Man 3", "released": "2027-09-15"}]`))
	})

	games, err := client.FetchUpcoming(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "2027-09-15", games[0].Released.String())
}

func TestMutations(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if r.Body != nil && r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&c.body))
		}
		assert.Equal(t, "user_1_abcdefghi", r.URL.Query().Get("user_id"))
		calls = append(calls, c)
		w.Write([]byte(`{"message": "ok"}`))
	})
	ctx := context.Background()

	require.NoError(t, client.AddFavorite(ctx, 3, "Super Mario Odyssey 2"))
	require.NoError(t, client.RemoveFavorite(ctx, 3))
	require.NoError(t, client.Vote(ctx, 5, game.VoteDown))
	require.NoError(t, client.Vote(ctx, 5, game.VoteNone))

	require.Len(t, calls, 4)
	assert.Equal(t, call{http.MethodPost, "/api/favorites", map[string]any{
		"user_id": "user_1_abcdefghi", "game_id": float64(3), "game_name": "Super Mario Odyssey 2",
	}}, calls[0])
	assert.Equal(t, call{method: http.MethodDelete, path: "/api/favorites/3"}, calls[1])
	assert.Equal(t, "downvote", calls[2].body["vote_type"])
	assert.Contains(t, calls[3].body, "vote_type")
	assert.Nil(t, calls[3].body["vote_type"])
}

func TestFetchStatsAndFavorites(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/games/5/stats":
			w.Write([]byte(`{"game_id": 5, "upvotes": 10, "downvotes": 3, "total_votes": 13}`))
		case "/api/favorites":
			w.Write([]byte(`[{"id": "f1", "user_id": "user_1_abcdefghi", "game_id": 5, "game_name": "Halo", "created_at": "2026-10-01T12:00:00Z"}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	stats, err := client.FetchStats(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, &game.VoteStats{GameID: 5, Upvotes: 10, Downvotes: 3, TotalVotes: 13}, stats)

	favorites, err := client.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Halo", favorites[0].GameName)
}

func TestErrorResponses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Favorite not found"}`))
	})

	err := client.RemoveFavorite(context.Background(), 9)

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "Favorite not found")
	assert.Contains(t, err.Error(), "404")
}

func TestUserResolutionFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", brokenUser{}, time.Second)

	_, err := client.FetchGames(context.Background(), game.DefaultFilters())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestClientDrivesState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/games/upcoming":
			w.Write([]byte(`[{"id": 5, "name": "Halo Infinite: Echoes", "user_vote": "downvote",
				"vote_stats": {"game_id": 5, "upvotes": 10, "downvotes": 3, "total_votes": 13}}]`))
		case r.URL.Path == "/api/votes":
			w.Write([]byte(`{"message": "Vote recorded"}`))
		default:
			http.NotFound(w, r)
		}
	})
	state := game.NewState(client)
	ctx := context.Background()

	require.NoError(t, state.LoadUpcoming(ctx, 0))
	require.NoError(t, state.CastVote(ctx, 5, game.VoteUp))

	g := state.Games()[0]
	assert.Equal(t, game.VoteUp, g.UserVote)
	assert.Equal(t, &game.VoteStats{GameID: 5, Upvotes: 11, Downvotes: 2, TotalVotes: 13}, g.VoteStats)
}
