package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/biu7/redis-dict/errors"
	"github.com/redis/go-redis/v9"
)

// scanCount 是每次 SCAN 的 COUNT 提示
const scanCount = 1000

var _ Remote = (*Redis)(nil)

type Redis struct {
	client redis.Cmdable
}

func NewRedis(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(opt)), nil
}

func NewRedisWithClient(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

// Client 返回底层客户端
func (r *Redis) Client() redis.Cmdable {
	return r.client
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, expire time.Duration) error {
	if expire < 0 {
		expire = 0
	}
	err := r.client.Set(ctx, key, value, expire).Err()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *Redis) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	ret := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return ret, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	for i, key := range keys {
		s, ok := vals[i].(string)
		if !ok {
			continue
		}
		ret[key] = []byte(s)
	}
	return ret, nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	if err != nil {
		return fmt.Errorf("redis del %v: %w", keys, err)
	}
	return nil
}

// Keys 使用 SCAN 游标遍历，避免 KEYS 阻塞服务端；SCAN 可能重复返回同一个键，这里去重
func (r *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
		seen   = make(map[string]struct{})
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
		}
		for _, key := range batch {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl %s: %w", key, err)
	}
	// go-redis 将 -2/-1 原样返回为纳秒值
	switch ttl {
	case -2:
		return 0, errors.ErrKeyNotFound
	case -1:
		return NoExpiry, nil
	}
	return ttl, nil
}
