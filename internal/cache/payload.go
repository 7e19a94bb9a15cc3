package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PayloadStore is a second-level cache of raw boundary payloads shared between processes.
type PayloadStore interface {
	Get(ctx context.Context, src string) ([]byte, bool, error)
	Set(ctx context.Context, src string, data []byte) error
}

// RedisPayloadStore keeps payloads in Redis under a key prefix, without expiry.
type RedisPayloadStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisPayloadStore wraps an existing client.
func NewRedisPayloadStore(client redis.Cmdable, prefix string) *RedisPayloadStore {
	return &RedisPayloadStore{client: client, prefix: prefix}
}

// RedisOptions configures DialRedisPayloadStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DialRedisPayloadStore creates a client from options. The connection is lazy.
func DialRedisPayloadStore(opts RedisOptions) (*RedisPayloadStore, *redis.Client) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisPayloadStore(client, opts.Prefix), client
}

func (s *RedisPayloadStore) key(src string) string {
	return s.prefix + src
}

func (s *RedisPayloadStore) Get(ctx context.Context, src string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(src)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", src, err)
	}
	return data, true, nil
}

func (s *RedisPayloadStore) Set(ctx context.Context, src string, data []byte) error {
	if err := s.client.Set(ctx, s.key(src), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", src, err)
	}
	return nil
}
