package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/game/options"
)

var ErrRequestFailed = errors.New("catalog request failed")

// Open date range bounds are filled with these when only one side is set
const (
	openStart = "1970-01-01"
	openEnd   = "2100-12-31"
)

// UserIDSource supplies the id every request is scoped to
type UserIDSource interface {
	UserID() (string, error)
}

// Client talks to the catalog server's REST API
type Client struct {
	baseURL    string
	users      UserIDSource
	httpClient *http.Client
}

var _ game.Catalog = (*Client)(nil)

func NewClient(baseURL string, users UserIDSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = time.Second * 10
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		users:   users,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type favoriteRequest struct {
	UserID   string `json:"user_id"`
	GameID   int    `json:"game_id"`
	GameName string `json:"game_name"`
}

type voteRequest struct {
	UserID   string        `json:"user_id"`
	GameID   int           `json:"game_id"`
	VoteType game.VoteType `json:"vote_type"`
}

// FilterParams encodes filters as catalog query parameters. "all" selectors
// and empty fields are left out.
func FilterParams(f game.Filters) url.Values {
	params := url.Values{}
	if s := strings.TrimSpace(f.Search); s != "" {
		params.Set("search", s)
	}
	if !options.IsAll(f.Platform) {
		params.Set("platform", f.Platform)
	}
	if !options.IsAll(f.Genre) {
		params.Set("genre", f.Genre)
	}
	if !f.Dates.IsZero() {
		start, end := openStart, openEnd
		if !f.Dates.Start.IsZero() {
			start = f.Dates.Start.String()
		}
		if !f.Dates.End.IsZero() {
			end = f.Dates.End.String()
		}
		params.Set("dates", start+","+end)
	}
	if f.Ordering != "" {
		params.Set("ordering", string(f.Ordering))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return params
}

// FetchGames returns one page for the filters. The server has no notion of
// favorites-only, so that criterion is applied to the returned page.
func (c *Client) FetchGames(ctx context.Context, filters game.Filters) ([]game.Game, error) {
	params := FilterParams(filters)

	var games []game.Game
	if err := c.do(ctx, http.MethodGet, "/api/games", params, nil, &games); err != nil {
		return nil, err
	}
	if !filters.FavoritesOnly {
		return games, nil
	}

	favorites := make([]game.Game, 0, len(games))
	for _, g := range games {
		if g.IsFavorite {
			favorites = append(favorites, g)
		}
	}
	return favorites, nil
}

func (c *Client) FetchUpcoming(ctx context.Context, windowDays int) ([]game.Game, error) {
	if windowDays <= 0 {
		windowDays = game.DefaultUpcomingWindow
	}
	params := url.Values{}
	params.Set("days_ahead", strconv.Itoa(windowDays))

	var games []game.Game
	if err := c.do(ctx, http.MethodGet, "/api/games/upcoming", params, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) AddFavorite(ctx context.Context, gameID int, name string) error {
	userID, err := c.users.UserID()
	if err != nil {
		return err
	}
	body := favoriteRequest{UserID: userID, GameID: gameID, GameName: name}
	return c.do(ctx, http.MethodPost, "/api/favorites", nil, body, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, gameID int) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+strconv.Itoa(gameID), nil, nil, nil)
}

// Vote sets the user's vote; game.VoteNone retracts it
func (c *Client) Vote(ctx context.Context, gameID int, vote game.VoteType) error {
	userID, err := c.users.UserID()
	if err != nil {
		return err
	}
	body := voteRequest{UserID: userID, GameID: gameID, VoteType: vote}
	return c.do(ctx, http.MethodPost, "/api/votes", nil, body, nil)
}

func (c *Client) FetchStats(ctx context.Context, gameID int) (*game.VoteStats, error) {
	var stats game.VoteStats
	path := "/api/games/" + strconv.Itoa(gameID) + "/stats"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListFavorites returns the user's favorites, newest first
func (c *Client) ListFavorites(ctx context.Context) ([]game.Favorite, error) {
	var favorites []game.Favorite
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// do sends a request scoped to the current user. body is JSON encoded when
// non-nil and the response is decoded into dest when non-nil.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, dest any) error {
	userID, err := c.users.UserID()
	if err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("user_id", userID)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRequestFailed, method, path, resp.StatusCode, errorDetail(resp.Body))
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func errorDetail(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}
