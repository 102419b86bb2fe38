// Package kvstore is the durable key-value layer the progress engine,
// weekly history and accounts persist their serialized values into.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/2beens/fitprogress/internal/config"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("key not found")

// Store is a string key-value store. Set writes the whole value at once,
// readers never observe a partially written value.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type NewStoreParams struct {
	Backend       string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SQLitePath    string
}

// New opens the store for the configured backend. For redis, the returned
// client is non-nil so callers can reuse it (e.g. for rate limiting).
func New(ctx context.Context, params NewStoreParams) (Store, *redis.Client, error) {
	switch params.Backend {
	case config.StorageBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.RedisHost, params.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		return NewRedisStore(rdb), rdb, nil
	case config.StorageBackendSQLite:
		store, err := NewSQLiteStore(ctx, params.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("new sqlite store: %w", err)
		}
		return store, nil, nil
	case config.StorageBackendMemory:
		log.Warnln("using in-memory store, progress will not survive a restart")
		return NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", params.Backend)
	}
}
