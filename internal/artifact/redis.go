package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/types"
)

// RedisStore keeps artifacts in Redis so several instances can share one
// session's images. Keys are never expired by the store itself; expiry
// policy is a deployment concern.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// RedisConfig Redis 后端配置
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
}

// NewRedisStore connects to Redis and pings it once before returning.
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis artifact store initialized", zap.String("addr", cfg.Addr))
	return &RedisStore{
		client: client,
		logger: logger.With(zap.String("component", "artifact_store")),
	}, nil
}

func redisKey(sessionID string, slot types.Slot) string {
	return "artifact:" + sessionID + ":" + string(slot)
}

// Put stores value under (sessionID, slot), overwriting any previous value.
func (s *RedisStore) Put(ctx context.Context, sessionID string, slot types.Slot, value string) error {
	if err := s.client.Set(ctx, redisKey(sessionID, slot), value, 0).Err(); err != nil {
		return fmt.Errorf("redis put artifact: %w", err)
	}
	return nil
}

// Get returns the stored value or ARTIFACT_NOT_FOUND.
func (s *RedisStore) Get(ctx context.Context, sessionID string, slot types.Slot) (string, error) {
	v, err := s.client.Get(ctx, redisKey(sessionID, slot)).Result()
	if err == redis.Nil {
		return "", ErrNotFound(sessionID, slot)
	}
	if err != nil {
		return "", fmt.Errorf("redis get artifact: %w", err)
	}
	return v, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
