// Package dict 提供一个存储完全托管在远程键值存储中的映射。
//
// 每个逻辑键以 "{namespace}_{key}" 的形式保存在远程存储里，
// 相同存储上命名空间相同的映射共享同一份数据。
package dict

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biu7/redis-dict/errors"
	"github.com/biu7/redis-dict/serializer"
	"github.com/biu7/redis-dict/storage"
)

// mgetBatch 枚举值时每次 MGET 的键数量
const mgetBatch = 500

// Pair 是写入时使用的键值对
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Item 是枚举结果，Key 为去掉命名空间前缀后的字符串形式
type Item[V any] struct {
	Key   string
	Value V
}

// Dict 本身不加锁也不缓存，每个操作都直接访问远程存储，可以被多个 goroutine 同时使用
type Dict[K comparable, V any] struct {
	namespace  string
	prefix     string
	pattern    string
	expiry     time.Duration
	remote     storage.Remote
	serializer serializer.Serializer
	logger     *slog.Logger
}

// New 创建映射，必须通过 WithRemote 或 WithAddr 指定远程存储
func New[K comparable, V any](namespace string, opts ...Option) (*Dict[K, V], error) {
	cfg := newOptions()
	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	return &Dict[K, V]{
		namespace:  namespace,
		prefix:     namespace + separator,
		pattern:    escapeGlob(namespace) + separator + "*",
		expiry:     cfg.expiry,
		remote:     cfg.remote,
		serializer: cfg.serializer,
		logger:     cfg.logger.With(slog.String("namespace", namespace)),
	}, nil
}

// NewFrom 创建映射并通过 Set 写入 entries
func NewFrom[K comparable, V any](ctx context.Context, namespace string, entries map[K]V, opts ...Option) (*Dict[K, V], error) {
	d, err := New[K, V](namespace, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Update(ctx, entries); err != nil {
		return nil, err
	}
	return d, nil
}

// NewFromPairs 创建映射并按顺序写入 pairs
func NewFromPairs[K comparable, V any](ctx context.Context, namespace string, pairs []Pair[K, V], opts ...Option) (*Dict[K, V], error) {
	d, err := New[K, V](namespace, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.UpdatePairs(ctx, pairs...); err != nil {
		return nil, err
	}
	return d, nil
}

// FromKeys 不支持：远程存储上没有合理的默认值约定
func FromKeys[K comparable, V any](namespace string, keys []K, value V, opts ...Option) (*Dict[K, V], error) {
	return nil, fmt.Errorf("%w: fromkeys", errors.ErrUnsupported)
}

func (d *Dict[K, V]) Namespace() string {
	return d.namespace
}

func (d *Dict[K, V]) Expiry() time.Duration {
	return d.expiry
}

// Set 写入键值，已存在时覆盖并重置过期时间
func (d *Dict[K, V]) Set(ctx context.Context, key K, value V) error {
	if err := checkKey(key); err != nil {
		return err
	}

	data, err := d.serializer.Marshal(value)
	if err != nil {
		return fmt.Errorf("dict marshal %s: %w", stringify(key), err)
	}

	remoteKey := d.remoteKey(key)
	if err := d.remote.Set(ctx, remoteKey, data, d.expiry); err != nil {
		return err
	}
	d.logger.DebugContext(ctx, "dict set", slog.String("key", remoteKey), slog.Duration("expiry", d.expiry))
	return nil
}

// Get 键不存在时返回 errors.ErrKeyNotFound
func (d *Dict[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	if err := checkKey(key); err != nil {
		return zero, err
	}

	data, err := d.remote.Get(ctx, d.remoteKey(key))
	if err != nil {
		if errors.Is(err, errors.ErrKeyNotFound) {
			return zero, fmt.Errorf("%w: %s", errors.ErrKeyNotFound, stringify(key))
		}
		return zero, err
	}
	return d.decode(stringify(key), data)
}

// GetOrDefault 键不存在时返回 def
func (d *Dict[K, V]) GetOrDefault(ctx context.Context, key K, def V) (V, error) {
	value, err := d.Get(ctx, key)
	if errors.Is(err, errors.ErrKeyNotFound) {
		return def, nil
	}
	return value, err
}

func (d *Dict[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	return d.remote.Exists(ctx, d.remoteKey(key))
}

// Delete 删除不存在的键不报错
func (d *Dict[K, V]) Delete(ctx context.Context, key K) error {
	if err := checkKey(key); err != nil {
		return err
	}

	remoteKey := d.remoteKey(key)
	if err := d.remote.Delete(ctx, remoteKey); err != nil {
		return err
	}
	d.logger.DebugContext(ctx, "dict delete", slog.String("key", remoteKey))
	return nil
}

// Pop 读取后删除，键不存在时返回 errors.ErrKeyNotFound 且不会执行删除
func (d *Dict[K, V]) Pop(ctx context.Context, key K) (V, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return value, err
	}
	if err := d.Delete(ctx, key); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// Len 每次调用都会扫描命名空间下的全部键
func (d *Dict[K, V]) Len(ctx context.Context) (int, error) {
	keys, err := d.remote.Keys(ctx, d.pattern)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Keys 返回逻辑键的字符串形式，而不是写入时的原始类型
func (d *Dict[K, V]) Keys(ctx context.Context) ([]string, error) {
	remoteKeys, err := d.remote.Keys(ctx, d.pattern)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(remoteKeys))
	for _, remoteKey := range remoteKeys {
		keys = append(keys, d.logicalKey(remoteKey))
	}
	return keys, nil
}

// Values 扫描与读取之间被删除或过期的键会被跳过
func (d *Dict[K, V]) Values(ctx context.Context) ([]V, error) {
	var values []V
	err := d.scan(ctx, func(_ string, value V) {
		values = append(values, value)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Items 与 Values 相同，附带键的字符串形式
func (d *Dict[K, V]) Items(ctx context.Context) ([]Item[V], error) {
	var items []Item[V]
	err := d.scan(ctx, func(key string, value V) {
		items = append(items, Item[V]{Key: key, Value: value})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update 依次写入 entries，中途失败时已写入的键不会回滚
func (d *Dict[K, V]) Update(ctx context.Context, entries map[K]V) error {
	for key, value := range entries {
		if err := d.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePairs 按顺序写入 pairs，中途失败时已写入的键不会回滚
func (d *Dict[K, V]) UpdatePairs(ctx context.Context, pairs ...Pair[K, V]) error {
	for _, pair := range pairs {
		if err := d.Set(ctx, pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Clear 删除命名空间下的全部键，清理期间并发写入的键可能保留
func (d *Dict[K, V]) Clear(ctx context.Context) error {
	remoteKeys, err := d.remote.Keys(ctx, d.pattern)
	if err != nil {
		return err
	}

	for start := 0; start < len(remoteKeys); start += mgetBatch {
		end := min(start+mgetBatch, len(remoteKeys))
		if err := d.remote.Delete(ctx, remoteKeys[start:end]...); err != nil {
			return err
		}
	}
	d.logger.DebugContext(ctx, "dict clear", slog.Int("deleted", len(remoteKeys)))
	return nil
}

// TTL 返回剩余过期时间，未设置过期时返回 storage.NoExpiry
func (d *Dict[K, V]) TTL(ctx context.Context, key K) (time.Duration, error) {
	if err := checkKey(key); err != nil {
		return 0, err
	}

	ttl, err := d.remote.TTL(ctx, d.remoteKey(key))
	if errors.Is(err, errors.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: %s", errors.ErrKeyNotFound, stringify(key))
	}
	return ttl, err
}

// Copy 不支持：无法在远程存储上得到独立的副本
func (d *Dict[K, V]) Copy() (*Dict[K, V], error) {
	return nil, fmt.Errorf("%w: copy", errors.ErrUnsupported)
}

// PopItem 不支持：远程扫描没有确定的顺序
func (d *Dict[K, V]) PopItem() (Item[V], error) {
	return Item[V]{}, fmt.Errorf("%w: popitem", errors.ErrUnsupported)
}

func (d *Dict[K, V]) scan(ctx context.Context, fn func(key string, value V)) error {
	remoteKeys, err := d.remote.Keys(ctx, d.pattern)
	if err != nil {
		return err
	}

	for start := 0; start < len(remoteKeys); start += mgetBatch {
		batch := remoteKeys[start:min(start+mgetBatch, len(remoteKeys))]
		found, err := d.remote.MGet(ctx, batch)
		if err != nil {
			return err
		}

		for _, remoteKey := range batch {
			data, ok := found[remoteKey]
			if !ok {
				d.logger.DebugContext(ctx, "dict entry vanished during scan", slog.String("key", remoteKey))
				continue
			}

			key := d.logicalKey(remoteKey)
			value, err := d.decode(key, data)
			if err != nil {
				return err
			}
			fn(key, value)
		}
	}
	return nil
}

func (d *Dict[K, V]) decode(key string, data []byte) (V, error) {
	var value V
	if err := d.serializer.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("dict unmarshal %s: %w", key, err)
	}
	return value, nil
}

func (d *Dict[K, V]) remoteKey(key K) string {
	return d.prefix + stringify(key)
}

func (d *Dict[K, V]) logicalKey(remoteKey string) string {
	return strings.TrimPrefix(remoteKey, d.prefix)
}
