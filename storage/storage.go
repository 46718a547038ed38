package storage

import (
	"context"
	"time"
)

// Remote 是映射所依赖的远程键值存储能力
type Remote interface {
	// Set 写入键值，expire 为 0 表示不过期
	Set(ctx context.Context, key string, value []byte, expire time.Duration) error

	// Get 键不存在时返回 errors.ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet 不存在的键不会出现在结果中
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Delete 删除不存在的键不报错
	Delete(ctx context.Context, keys ...string) error

	// Keys 返回匹配 glob 模式的全部键，顺序不保证
	Keys(ctx context.Context, pattern string) ([]string, error)

	// TTL 返回剩余过期时间，未设置过期时返回 NoExpiry
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// NoExpiry 表示键存在但没有过期时间
const NoExpiry time.Duration = -1
