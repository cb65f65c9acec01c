package xredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get and GetObj for a missing key.
var ErrNotFound = errors.New("redis: key not found")

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// SetNX sets key only if it does not exist and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// DelIfEqual deletes key only if it still holds value.
	DelIfEqual(ctx context.Context, key, value string) (bool, error)
	// ExpireIfEqual resets the ttl of key only if it still holds value.
	ExpireIfEqual(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetObj(ctx context.Context, key string, v any) error
}

var delIfEqualScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var expireIfEqualScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}

	return err
}

func (c *client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.redisClient.SetNX(ctx, key, value, ttl).Result()
}

func (c *client) DelIfEqual(ctx context.Context, key, value string) (bool, error) {
	n, err := delIfEqualScript.Run(ctx, c.redisClient, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) ExpireIfEqual(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	n, err := expireIfEqualScript.Run(ctx, c.redisClient, []string{key}, value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.redisClient.Set(ctx, key, value, ttl).Err()
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	s, err := c.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	return s, err
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
