package rawg

import (
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

const DefaultBaseURL = "https://api.rawg.io/api"

// RAWG rejects page sizes above 40
const MaxPageSize = 40

var (
	ErrNotFound = errors.New("game not found upstream")
	ErrUpstream = errors.New("upstream request failed")
)

// Query is a games list request. Platform and Genre are display names and
// are translated to RAWG ids; unknown names are dropped.
type Query struct {
	Search   string
	Platform string
	Genre    string
	Dates    string // "YYYY-MM-DD,YYYY-MM-DD"
	Ordering options.Ordering
	Page     int
	PageSize int
}

// GamesResponse is one page of RAWG's /games listing
type GamesResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []game.Game `json:"results"`
}

// Upstream is the game metadata source the catalog server enriches
type Upstream interface {
	GetGames(ctx context.Context, q Query) (*GamesResponse, error)
	GetGame(ctx context.Context, id int) (*game.Game, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = time.Second * 30
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Params builds the RAWG query string for q, without the API key
func (q Query) Params() url.Values {
	params := url.Values{}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = game.DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	ordering := q.Ordering
	if ordering == "" {
		ordering = options.DefaultOrdering
	}

	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("ordering", string(ordering))

	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	if id, ok := options.PlatformID(q.Platform); ok {
		params.Set("platforms", strconv.Itoa(id))
	}
	if id, ok := options.GenreID(q.Genre); ok {
		params.Set("genres", strconv.Itoa(id))
	}
	if q.Dates != "" {
		params.Set("dates", q.Dates)
	}
	return params
}

func (c *Client) GetGames(ctx context.Context, q Query) (*GamesResponse, error) {
	params := q.Params()
	params.Set("key", c.apiKey)

	var resp GamesResponse
	if err := c.get(ctx, "/games", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetGame(ctx context.Context, id int) (*game.Game, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)

	var g game.Game
	if err := c.get(ctx, "/games/"+strconv.Itoa(id), params, &g); err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &g, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
