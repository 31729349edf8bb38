package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/klondike/game/service"
)

const (
	redisKeyPrefix = "klondike:session:"
	redisIndexKey  = "klondike:sessions"
	redisOpTimeout = 5 * time.Second
)

// RedisPersistence implements SessionPersistence on a Redis server. Each
// session is one JSON string value; a set indexes the stored IDs.
type RedisPersistence struct {
	client        redis.UniversalClient
	configManager service.ConfigManager
	ttl           time.Duration
}

// NewRedisPersistence connects to the Redis server at url and checks it responds
func NewRedisPersistence(url string, configManager service.ConfigManager) (*RedisPersistence, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return NewRedisPersistenceWithClient(client, configManager), nil
}

// NewRedisPersistenceWithClient wraps an existing client
func NewRedisPersistenceWithClient(client redis.UniversalClient, configManager service.ConfigManager) *RedisPersistence {
	return &RedisPersistence{
		client:        client,
		configManager: configManager,
	}
}

// SetTTL makes stored sessions expire after ttl without a save. Zero keeps them forever.
func (rp *RedisPersistence) SetTTL(ttl time.Duration) {
	rp.ttl = ttl
}

// Close releases the underlying client
func (rp *RedisPersistence) Close() error {
	return rp.client.Close()
}

func (rp *RedisPersistence) key(id string) string {
	return redisKeyPrefix + id
}

// Save persists a session as a JSON value
func (rp *RedisPersistence) Save(session *service.Session) error {
	data, err := encodeSession(session, rp.configManager)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_, err = rp.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rp.key(session.ID), payload, rp.ttl)
		pipe.SAdd(ctx, redisIndexKey, session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}
	return nil
}

// Load retrieves a session by ID
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	payload, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return decodeSession(&data, rp.configManager)
}

// Delete removes a session
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var del *redis.IntCmd
	_, err := rp.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, rp.key(id))
		pipe.SRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all stored session IDs. Index entries whose value has
// expired are pruned.
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	ids, err := rp.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := rp.client.Exists(ctx, rp.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if n == 0 {
			rp.client.SRem(ctx, redisIndexKey, id)
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

// Exists checks if a session is stored
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}
