package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx returns a client for a real redis instance, used by the
// store integration tests. The test is skipped when REDIS_HOST is not set.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		t.Skip("REDIS_HOST not set, skipping redis integration test")
	}
	t.Logf("using redis host: [%s]", redisHost)

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	redisPass := os.Getenv("REDIS_PASS")
	if redisPass == "<remove>" {
		redisPass = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, redisPort),
		Password: redisPass,
		DB:       0, // use default DB
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	pingRes, err := rdb.Ping(ctx).Result()
	require.NoError(t, err)
	t.Logf("redis ping res: %s", pingRes)

	return ctx, rdb
}
