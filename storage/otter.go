package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/biu7/redis-dict/errors"
	"github.com/maypok86/otter"
)

// foreverTTL 用于不过期的键，otter 的 0 TTL 表示立即过期
const foreverTTL = 10 * 365 * 24 * time.Hour

var _ Remote = (*Otter)(nil)

type otterEntry struct {
	value []byte
	// expiresAt 为零值表示不过期
	expiresAt time.Time
}

// Otter 是进程内的 Remote 实现，适用于单进程部署与测试。
// 过期判断以写入时记录的截止时间为准，不依赖 otter 的惰性清理
type Otter struct {
	client *otter.CacheWithVariableTTL[string, otterEntry]
	now    func() time.Time
}

func NewOtter(maxMemory int) (*Otter, error) {
	if maxMemory <= 0 {
		return nil, fmt.Errorf("otter create: invalid maxMemory: %d", maxMemory)
	}
	cache, err := otter.MustBuilder[string, otterEntry](maxMemory).
		WithVariableTTL().
		Cost(func(key string, entry otterEntry) uint32 {
			return uint32(len(key) + len(entry.value))
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("otter create: capacity %d: %w", maxMemory, err)
	}
	return &Otter{
		client: &cache,
		now:    time.Now,
	}, nil
}

func (o *Otter) Set(_ context.Context, key string, value []byte, expire time.Duration) error {
	entry := otterEntry{value: bytes.Clone(value)}
	ttl := foreverTTL
	if expire > 0 {
		ttl = expire
		entry.expiresAt = o.now().Add(expire)
	}
	if !o.client.Set(key, entry, ttl) {
		return fmt.Errorf("otter set %s: rejected by cache", key)
	}
	return nil
}

func (o *Otter) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := o.load(key)
	if !ok {
		return nil, errors.ErrKeyNotFound
	}
	return bytes.Clone(entry.value), nil
}

func (o *Otter) MGet(_ context.Context, keys []string) (map[string][]byte, error) {
	ret := make(map[string][]byte, len(keys))
	for _, key := range keys {
		entry, ok := o.load(key)
		if !ok {
			continue
		}
		ret[key] = bytes.Clone(entry.value)
	}
	return ret, nil
}

func (o *Otter) Exists(_ context.Context, key string) (bool, error) {
	_, ok := o.load(key)
	return ok, nil
}

func (o *Otter) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		o.client.Delete(key)
	}
	return nil
}

func (o *Otter) Keys(_ context.Context, pattern string) ([]string, error) {
	matcher, err := compileGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("otter keys %s: %w", pattern, err)
	}

	now := o.now()
	var keys []string
	o.client.Range(func(key string, entry otterEntry) bool {
		if !entry.expired(now) && matcher.Match(key) {
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}

func (o *Otter) TTL(_ context.Context, key string) (time.Duration, error) {
	entry, ok := o.load(key)
	if !ok {
		return 0, errors.ErrKeyNotFound
	}
	if entry.expiresAt.IsZero() {
		return NoExpiry, nil
	}
	return entry.expiresAt.Sub(o.now()), nil
}

func (o *Otter) load(key string) (otterEntry, bool) {
	entry, ok := o.client.Get(key)
	if !ok || entry.expired(o.now()) {
		return otterEntry{}, false
	}
	return entry, true
}

func (e otterEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
