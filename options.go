package dict

import (
	"io"
	"log/slog"
	"time"

	"github.com/biu7/redis-dict/errors"
	"github.com/biu7/redis-dict/serializer"
	"github.com/biu7/redis-dict/storage"
)

type Option interface {
	apply(*options)
}

// options 映射配置
type options struct {
	// remote 远程存储
	remote storage.Remote

	// serializer 值序列化器
	serializer serializer.Serializer

	// expiry 写入时设置的过期时间，0 表示不过期
	expiry time.Duration

	logger *slog.Logger
}

type remoteOption struct {
	remote storage.Remote
}

func (r remoteOption) apply(opts *options) {
	opts.remote = r.remote
}

// WithRemote 显式指定远程存储，多个映射可以共用同一个实例
func WithRemote(remote storage.Remote) Option {
	return remoteOption{remote: remote}
}

type addrOption struct {
	host string
	port int
}

func (a addrOption) apply(opts *options) {
	opts.remote = storage.Shared(a.host, a.port)
}

// WithAddr 使用 host:port 对应的进程级共享 Redis 连接池
func WithAddr(host string, port int) Option {
	return addrOption{host: host, port: port}
}

type serializerOption struct {
	serializer serializer.Serializer
}

func (s serializerOption) apply(opts *options) {
	opts.serializer = s.serializer
}

func WithSerializer(srl serializer.Serializer) Option {
	return serializerOption{serializer: srl}
}

type expiryOption struct {
	expiry time.Duration
}

func (e expiryOption) apply(opts *options) {
	opts.expiry = e.expiry
}

// WithExpiry 设置每次写入的过期时间，读取不会刷新
func WithExpiry(expiry time.Duration) Option {
	return expiryOption{expiry: expiry}
}

type loggerOption struct {
	logger *slog.Logger
}

func (l loggerOption) apply(opts *options) {
	opts.logger = l.logger
}

func WithLogger(logger *slog.Logger) Option {
	return loggerOption{logger: logger}
}

// applyOptions 应用选项到配置
func applyOptions(opts *options, options ...Option) error {
	for _, option := range options {
		option.apply(opts)
	}
	return validateOptions(opts)
}

// newOptions 创建默认配置
func newOptions() *options {
	return &options{
		serializer: serializer.NewSonicJson(), // 默认使用SonicJson序列化
		expiry:     0,                         // 默认不过期
		logger:     discardLogger(),
	}
}

func validateOptions(cfg *options) error {
	if cfg.remote == nil {
		return errors.ErrRemoteRequired
	}
	if cfg.expiry < 0 {
		return errors.ErrInvalidExpireTime
	}
	if cfg.serializer == nil {
		cfg.serializer = serializer.NewSonicJson()
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
