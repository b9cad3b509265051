package dal

import (
	"context"
	"log"
	"time"

	"mkt-settlement-api/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient backs the order cache and the idempotency markers for webhook
// replays and payout-run dedup. Startup is fatal without it: the markers are
// load-bearing for at-least-once message handling.
var RedisClient *redis.Client
var RedisCtx = context.Background()

// MarkerTTL bounds every idempotency marker. Long enough to outlive any
// realistic MQ redelivery window, short enough that keys do not pile up;
// the guarded columns in MySQL stay the authority after expiry.
const MarkerTTL = 24 * time.Hour

func InitRedis() {
	cfg := config.C.Redis
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}
}
