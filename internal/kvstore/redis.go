package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	cmd := s.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return cmd.Val(), nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	// no expiration, progress lives until cleared explicitly
	if err := s.redisClient.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.redisClient.Close()
}
