package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"

	"game-tracker-go/internal/game"
)

// UserData is what one user has marked across a set of games
type UserData struct {
	Favorites map[int]bool
	Votes     map[int]game.VoteType
}

// StatusCheck records that a client reached the catalog
type StatusCheck struct {
	ID         string    `json:"id" db:"id"`
	ClientName string    `json:"client_name" db:"client_name"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

// Repository persists favorites, votes and status checks
type Repository interface {
	AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error)
	RemoveFavorite(ctx context.Context, userID string, gameID int) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error)

	// SetVote stores the user's vote; game.VoteNone deletes it and returns nil
	SetVote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, error)
	VoteStats(ctx context.Context, gameIDs []int) (map[int]game.VoteStats, error)
	UserData(ctx context.Context, userID string, gameIDs []int) (*UserData, error)

	CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error)
	ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error)
}

type postgresRepository struct {
	db    *sqlx.DB
	clock clockwork.Clock
}

func NewRepository(db *sqlx.DB, clock clockwork.Clock) Repository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &postgresRepository{db: db, clock: clock}
}

func (r *postgresRepository) AddFavorite(ctx context.Context, userID string, gameID int, gameName string) (*game.Favorite, error) {
	query := `
		INSERT INTO favorites (id, user_id, game_id, game_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, game_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), userID, gameID, gameName, r.clock.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	// Adding twice returns the original row
	var favorite game.Favorite
	if err := r.db.GetContext(ctx, &favorite,
		"SELECT * FROM favorites WHERE user_id = $1 AND game_id = $2", userID, gameID); err != nil {
		return nil, fmt.Errorf("failed to load favorite: %w", err)
	}
	return &favorite, nil
}

func (r *postgresRepository) RemoveFavorite(ctx context.Context, userID string, gameID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND game_id = $2", userID, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return n > 0, nil
}

func (r *postgresRepository) ListFavorites(ctx context.Context, userID string) ([]game.Favorite, error) {
	favorites := []game.Favorite{}
	if err := r.db.SelectContext(ctx, &favorites,
		"SELECT * FROM favorites WHERE user_id = $1 ORDER BY created_at DESC", userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func (r *postgresRepository) SetVote(ctx context.Context, userID string, gameID int, vote game.VoteType) (*game.Vote, error) {
	if vote == game.VoteNone {
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM votes WHERE user_id = $1 AND game_id = $2", userID, gameID); err != nil {
			return nil, fmt.Errorf("failed to remove vote: %w", err)
		}
		return nil, nil
	}

	query := `
		INSERT INTO votes (id, user_id, game_id, vote_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, game_id)
		DO UPDATE SET vote_type = EXCLUDED.vote_type, updated_at = EXCLUDED.updated_at
		RETURNING *`

	var stored game.Vote
	if err := r.db.GetContext(ctx, &stored, query,
		uuid.New().String(), userID, gameID, string(vote), r.clock.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	return &stored, nil
}

type statsRow struct {
	GameID    int `db:"game_id"`
	Upvotes   int `db:"upvotes"`
	Downvotes int `db:"downvotes"`
}

// VoteStats counts votes per game. Games nobody voted on are absent from
// the result.
func (r *postgresRepository) VoteStats(ctx context.Context, gameIDs []int) (map[int]game.VoteStats, error) {
	stats := make(map[int]game.VoteStats, len(gameIDs))
	if len(gameIDs) == 0 {
		return stats, nil
	}

	query := `
		SELECT game_id,
			COUNT(*) FILTER (WHERE vote_type = 'upvote') AS upvotes,
			COUNT(*) FILTER (WHERE vote_type = 'downvote') AS downvotes
		FROM votes
		WHERE game_id = ANY($1)
		GROUP BY game_id`

	var rows []statsRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(int64s(gameIDs))); err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	for _, row := range rows {
		stats[row.GameID] = game.VoteStats{
			GameID:     row.GameID,
			Upvotes:    row.Upvotes,
			Downvotes:  row.Downvotes,
			TotalVotes: row.Upvotes + row.Downvotes,
		}
	}
	return stats, nil
}

func (r *postgresRepository) UserData(ctx context.Context, userID string, gameIDs []int) (*UserData, error) {
	data := &UserData{
		Favorites: make(map[int]bool),
		Votes:     make(map[int]game.VoteType),
	}
	if len(gameIDs) == 0 {
		return data, nil
	}
	ids := pq.Array(int64s(gameIDs))

	var favoriteIDs []int
	if err := r.db.SelectContext(ctx, &favoriteIDs,
		"SELECT game_id FROM favorites WHERE user_id = $1 AND game_id = ANY($2)", userID, ids); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	for _, id := range favoriteIDs {
		data.Favorites[id] = true
	}

	var votes []game.Vote
	if err := r.db.SelectContext(ctx, &votes,
		"SELECT * FROM votes WHERE user_id = $1 AND game_id = ANY($2)", userID, ids); err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	for _, v := range votes {
		data.Votes[v.GameID] = v.VoteType
	}
	return data, nil
}

func (r *postgresRepository) CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheck, error) {
	query := `
		INSERT INTO status_checks (id, client_name, timestamp)
		VALUES ($1, $2, $3)
		RETURNING *`

	var check StatusCheck
	if err := r.db.GetContext(ctx, &check, query,
		uuid.New().String(), clientName, r.clock.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to create status check: %w", err)
	}
	return &check, nil
}

func (r *postgresRepository) ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error) {
	checks := []StatusCheck{}
	if err := r.db.SelectContext(ctx, &checks,
		"SELECT * FROM status_checks ORDER BY timestamp LIMIT $1", limit); err != nil {
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}
	return checks, nil
}

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
