package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLoginThrottleRepository struct {
	client *redis.Client
}

func NewRedisLoginThrottleRepository(client *redis.Client) *RedisLoginThrottleRepository {
	return &RedisLoginThrottleRepository{client: client}
}

func throttleKey(username string) string {
	return fmt.Sprintf("login_failures:%s", username)
}

func (r *RedisLoginThrottleRepository) RegisterFailure(ctx context.Context, username string, windowSeconds int) (int64, error) {
	key := throttleKey(username)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// first failure opens the window
		if err := r.client.Expire(ctx, key, time.Duration(windowSeconds)*time.Second).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *RedisLoginThrottleRepository) Reset(ctx context.Context, username string) error {
	return r.client.Del(ctx, throttleKey(username)).Err()
}
