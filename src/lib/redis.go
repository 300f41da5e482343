package lib

import (
	"context"
	"log"
	"time"

	"travl/src/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// DialRedis parses a redis:// URL. Nothing is sent until the first command.
func DialRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = 5 * time.Second
	return redis.NewClient(opt), nil
}

// GetRedisClient returns nil when REDIS_HOST is not configured.
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	url := config.Get().Redis.URL
	if url == "" {
		return nil
	}
	rdb, err := DialRedis(url)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	redisClient = rdb
	return rdb
}

func PingRedis(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] Ping failed: %s\n", err.Error())
		return err
	}
	return nil
}

func NewRedisClient(c *redis.Client) {
	redisClient = c
}
