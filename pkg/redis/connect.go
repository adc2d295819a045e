package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client from a redis:// URL and verifies the
// connection with a ping, retrying with a growing backoff.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	client := redis.NewClient(opts)

	for i := 0; i < cfg.RetryAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
	}

	_ = client.Close()
	return nil, errors.Join(ErrConnectionFailed, err)
}
