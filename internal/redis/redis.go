package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress, redisUsername, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func Ping(ctx context.Context) error {
	if Rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	return Rdb.Ping(ctx).Err()
}

// IncrEvent bumps the shop's daily counter for an event type. Counters are
// additive fast-path metrics; popup_events rows remain the source of truth.
func IncrEvent(ctx context.Context, shop, eventType string, day time.Time) {
	if Rdb == nil {
		return
	}
	key := fmt.Sprintf("popup:%s:%s:%s", shop, eventType, day.UTC().Format("20060102"))
	pipe := Rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to increment event counter")
	}
}

// MarkShown records that a visitor has seen the popup, for the show-once
// frequency cap. Returns true when this is the first sighting in the TTL.
func MarkShown(ctx context.Context, shop, visitorID string, ttl time.Duration) bool {
	if Rdb == nil || visitorID == "" {
		return true
	}
	key := fmt.Sprintf("popup:%s:seen:%s", shop, visitorID)
	first, err := Rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to set frequency cap key")
		return true
	}
	return first
}
