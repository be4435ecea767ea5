package localcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is a KVStore backed by Redis, for deployments where several
// processes should share one cache. Entries are stored without a Redis-side
// expiry: freshness is the envelope's concern, and a stale entry must remain
// readable for the fallback path.
type RedisStore struct {
	redisClient *redis.Client
	logger      zerolog.Logger
}

// NewRedisStore creates and connects a new RedisStore. It pings the Redis
// server to ensure connectivity before returning.
func NewRedisStore(ctx context.Context, cfg *RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("redis_address", cfg.Addr).Msg("Successfully connected to Redis.")
	return &RedisStore{
		redisClient: rdb,
		logger:      logger.With().Str("component", "RedisStore").Logger(),
	}, nil
}

// Get retrieves the value for key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("redis get for %s: %w", key, ErrNotFound)
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Unexpected Redis error during get.")
		return "", fmt.Errorf("redis get for %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key with no expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	if err := s.redisClient.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to set value in Redis.")
		return fmt.Errorf("redis set for %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	if s.redisClient != nil {
		s.logger.Info().Msg("Closing Redis client connection...")
		return s.redisClient.Close()
	}
	return nil
}
