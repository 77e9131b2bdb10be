package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coinTossServer/config"
	"coinTossServer/state"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis(addr, password string, db int) error {
	log.Info("🔌 Connecting to Redis...")

	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RedisClient = client
	log.Infof("✅ Redis connected successfully - URL: %s", addr)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Info("🔌 Closing Redis connection...")
		err := RedisClient.Close()
		RedisClient = nil
		return err
	}
	return nil
}

/* =========================
   MATCH COMMITMENT CACHE
   Redis Key: match:{matchId} -> JSON commitment (TTL)
========================= */

// CacheMatchCommitment stores a commitment for quick verification lookups
func CacheMatchCommitment(ctx context.Context, m *state.MatchCommitment) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal match commitment: %w", err)
	}

	key := fmt.Sprintf(config.RedisMatchKey, m.MatchID)
	if err := RedisClient.Set(ctx, key, data, config.MatchCommitmentTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache match commitment: %w", err)
	}

	return nil
}

// GetCachedMatchCommitment returns the cached commitment, or nil on a cache miss
func GetCachedMatchCommitment(ctx context.Context, matchID string) (*state.MatchCommitment, error) {
	if RedisClient == nil {
		return nil, nil
	}

	key := fmt.Sprintf(config.RedisMatchKey, matchID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match commitment: %w", err)
	}

	var m state.MatchCommitment
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match commitment: %w", err)
	}

	return &m, nil
}

// HealthCheck checks if Redis is healthy
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
