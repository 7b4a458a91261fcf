package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/game/options"
	"game-tracker-go/internal/identity"
	"game-tracker-go/internal/rawg"
)

const (
	defaultDaysAhead = 365
	pingInterval     = 30 * time.Second
	writeTimeout     = 10 * time.Second
)

type Handler struct {
	service  CatalogService
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(service CatalogService, hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// fail maps service errors to status codes. Unexpected errors are logged
// and hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidVote), errors.Is(err, ErrInvalidYear):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrFavoriteNotFound):
		writeError(w, http.StatusNotFound, "Favorite not found")
	case errors.Is(err, rawg.ErrNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, rawg.ErrUpstream):
		h.logger.Error("upstream failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch games")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "GameTracker API is running!"})
}

// intParam parses an optional integer query parameter within [min, max]
func intParam(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%w: %s must be an integer between %d and %d", ErrInvalidRequest, name, min, max)
	}
	return n, nil
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	page, err := intParam(r, "page", 1, 1, 1<<20)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pageSize, err := intParam(r, "page_size", game.DefaultPageSize, 1, rawg.MaxPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	games, err := h.service.ListGames(r.Context(), identity.UserIDFromContext(r.Context()), rawg.Query{
		Search:   query.Get("search"),
		Platform: query.Get("platform"),
		Genre:    query.Get("genre"),
		Dates:    query.Get("dates"),
		Ordering: options.Ordering(query.Get("ordering")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// GetGame serves /games/:game_id. The router can't hold a static
// /games/upcoming next to the parameter, so that path lands here too.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("game_id") == "upcoming" {
		h.Upcoming(w, r)
		return
	}

	gameID, err := strconv.Atoi(ps.ByName("game_id"))
	if err != nil || gameID <= 0 {
		writeError(w, http.StatusBadRequest, "Game ID must be a positive integer")
		return
	}

	g, err := h.service.GetGame(r.Context(), identity.UserIDFromContext(r.Context()), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	daysAhead, err := intParam(r, "days_ahead", defaultDaysAhead, MinDaysAhead, MaxDaysAhead)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	games, err := h.service.Upcoming(r.Context(), identity.UserIDFromContext(r.Context()), daysAhead, r.URL.Query().Get("year"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID, err := strconv.Atoi(ps.ByName("game_id"))
	if err != nil || gameID <= 0 {
		writeError(w, http.StatusBadRequest, "Game ID must be a positive integer")
		return
	}

	stats, err := h.service.Stats(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type AddFavoriteRequest struct {
	UserID   string `json:"user_id"`
	GameID   int    `json:"game_id"`
	GameName string `json:"game_name"`
}

type favoriteResponse struct {
	Message  string         `json:"message"`
	Favorite *game.Favorite `json:"favorite"`
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	favorite, err := h.service.AddFavorite(r.Context(), req.UserID, req.GameID, req.GameName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{Message: "Game added to favorites", Favorite: favorite})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	gameID, err := strconv.Atoi(ps.ByName("game_id"))
	if err != nil || gameID <= 0 {
		writeError(w, http.StatusBadRequest, "Game ID must be a positive integer")
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), userID, gameID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Game removed from favorites"})
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// VoteRequest sets the user's vote. A null or absent vote_type retracts it.
type VoteRequest struct {
	UserID   string        `json:"user_id"`
	GameID   int           `json:"game_id"`
	VoteType game.VoteType `json:"vote_type"`
}

type voteResponse struct {
	Message string          `json:"message"`
	Vote    *game.Vote      `json:"vote"`
	Stats   *game.VoteStats `json:"stats"`
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vote, stats, err := h.service.Vote(r.Context(), req.UserID, req.GameID, req.VoteType)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := "Vote recorded"
	if vote == nil {
		message = "Vote removed"
	}
	writeJSON(w, http.StatusOK, voteResponse{Message: message, Vote: vote, Stats: stats})
}

type StatusCheckRequest struct {
	ClientName string `json:"client_name"`
}

func (h *Handler) CreateStatusCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req StatusCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	check, err := h.service.CreateStatusCheck(r.Context(), req.ClientName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *Handler) ListStatusChecks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checks, err := h.service.ListStatusChecks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checks)
}

// SubscribeToEvents streams vote and favorite events over a websocket until
// the client goes away or the hub closes
func (h *Handler) SubscribeToEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	// Drain client frames so close and pong control messages are handled
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *Handler) Routes() *httprouter.Router {
	router := httprouter.New()

	router.GET("/api/", h.Health)
	router.GET("/api/games", h.ListGames)
	router.GET("/api/games/:game_id", h.GetGame)
	router.GET("/api/games/:game_id/stats", h.Stats)
	router.GET("/api/favorites", h.ListFavorites)
	router.POST("/api/favorites", h.AddFavorite)
	router.DELETE("/api/favorites/:game_id", h.RemoveFavorite)
	router.POST("/api/votes", h.Vote)
	router.GET("/api/status", h.ListStatusChecks)
	router.POST("/api/status", h.CreateStatusCheck)
	router.GET("/api/events", h.SubscribeToEvents)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	return router
}

// HTTPHandler is the full middleware-wrapped handler the server mounts
func (h *Handler) HTTPHandler() http.Handler {
	return AccessLog(h.logger)(CORS(WithUser(h.Routes())))
}
