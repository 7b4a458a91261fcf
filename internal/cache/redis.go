package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/rawg"
)

const keyPrefix = "rawg:"

// NewRedisClient creates a client from a URL such as redis://localhost:6379/0
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Upstream is a read-through cache in front of a rawg.Upstream. Cache
// failures are logged and the request goes to the upstream, so an outage
// of redis only costs latency.
type Upstream struct {
	next   rawg.Upstream
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ rawg.Upstream = (*Upstream)(nil)

func NewUpstream(next rawg.Upstream, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Upstream {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upstream{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (u *Upstream) GetGames(ctx context.Context, q rawg.Query) (*rawg.GamesResponse, error) {
	key := keyPrefix + "games:" + q.Params().Encode()

	var cached rawg.GamesResponse
	if u.load(ctx, key, &cached) {
		return &cached, nil
	}

	resp, err := u.next.GetGames(ctx, q)
	if err != nil {
		return nil, err
	}
	u.store(ctx, key, resp)
	return resp, nil
}

func (u *Upstream) GetGame(ctx context.Context, id int) (*game.Game, error) {
	key := keyPrefix + "game:" + strconv.Itoa(id)

	var cached game.Game
	if u.load(ctx, key, &cached) {
		return &cached, nil
	}

	g, err := u.next.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	u.store(ctx, key, g)
	return g, nil
}

// Invalidate drops every cached upstream response
func (u *Upstream) Invalidate(ctx context.Context) error {
	iter := u.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := u.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	return nil
}

func (u *Upstream) load(ctx context.Context, key string, dest any) bool {
	data, err := u.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		u.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		u.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		u.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (u *Upstream) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		u.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := u.rdb.Set(ctx, key, data, u.ttl).Err(); err != nil {
		u.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
