package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// one bucket per client and router
			key := routerName + ":" + pkg.ClientIP(r)
			res, err := rateLimiter.Allow(
				r.Context(),
				key,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limit [%s]: %s", key, err)
				http.Error(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			http.Error(
				w,
				fmt.Sprintf("retry after %f seconds", res.RetryAfter.Seconds()),
				http.StatusTooManyRequests,
			)
		})
	}
}
