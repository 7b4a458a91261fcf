package rawg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-tracker-go/internal/game/options"
)

func TestQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  map[string]string
	}{
		{
			name:  "Defaults",
			query: Query{},
			want:  map[string]string{"page": "1", "page_size": "20", "ordering": "released"},
		},
		{
			name: "Everything",
			query: Query{
				Search:   " halo ",
				Platform: "Xbox Series S/X",
				Genre:    "FPS",
				Dates:    "2026-01-01,2026-12-31",
				Ordering: options.OrderRatingDesc,
				Page:     2,
				PageSize: 100,
			},
			want: map[string]string{
				"page":      "2",
				"page_size": "40",
				"ordering":  "-rating",
				"search":    "halo",
				"platforms": "186",
				"genres":    "2",
				"dates":     "2026-01-01,2026-12-31",
			},
		},
		{
			name:  "Unknown and catch-all selectors are dropped",
			query: Query{Platform: "All Platforms", Genre: "Roguelite"},
			want:  map[string]string{"page": "1", "page_size": "20", "ordering": "released"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.query.Params()
			got := map[string]string{}
			for k := range params {
				got[k] = params.Get(k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "4", r.URL.Query().Get("platforms"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"count": 2,
			"next": "https://api.rawg.io/api/games?page=2",
			"previous": null,
			"results": [
				{"id": 1, "name": "Alpha", "released": "2026-11-01", "platforms": [{"platform": {"id": 4, "name": "PC", "slug": "pc"}}]},
				{"id": 2, "name": "Beta", "released": null, "tba": true}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", "secret", time.Second)
	resp, err := client.GetGames(context.Background(), Query{Platform: "PC"})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	require.NotNil(t, resp.Next)
	assert.Nil(t, resp.Previous)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "2026-11-01", resp.Results[0].Released.String())
	assert.True(t, resp.Results[0].HasPlatform("PC"))
	assert.True(t, resp.Results[1].Released.IsZero())
	assert.True(t, resp.Results[1].TBA)
}

func TestGetGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games/3498":
			w.Write([]byte(`{"id": 3498, "name": "Grand Theft Auto V", "description_raw": "Heists."}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)

	g, err := client.GetGame(context.Background(), 3498)
	require.NoError(t, err)
	assert.Equal(t, "Grand Theft Auto V", g.Name)
	assert.Equal(t, "Heists.", g.Description)

	_, err = client.GetGame(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	_, err := client.GetGames(context.Background(), Query{})

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}
