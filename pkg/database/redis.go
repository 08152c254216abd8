package database

import (
	"context"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when addr is empty. A configured server that
// does not answer PING is an error.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		logger.Infof("REDIS_ADDR not set, rate limiting disabled")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Annotatef(err, "pinging redis at %s", addr)
	}
	logger.Infof("redis connected at %s", addr)
	return client, nil
}
