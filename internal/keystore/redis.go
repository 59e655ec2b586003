package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// Redis stores the session in a shared Redis instance. Used by the hosted
// (web) profile where the client core runs server-side and device storage
// is unavailable.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key() string {
	if r.prefix == "" {
		return sessionKey
	}
	return r.prefix + ":" + sessionKey
}

func (r *Redis) SaveSession(ctx context.Context, session *models.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(), value, 0).Err()
}

func (r *Redis) LoadSession(ctx context.Context) (*models.Session, error) {
	value, err := r.client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(value, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *Redis) ClearSession(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}

// Close releases the underlying connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
