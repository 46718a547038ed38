package errors

import "errors"

var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

var (
	// ErrKeyNotFound 请求的键不存在
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey 表示键无法作为映射键使用
	// 键的动态类型不可比较（slice、map、func 或包含它们的复合类型）或为 nil 时返回
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnsupported 表示该操作无法在远程存储上正确实现
	ErrUnsupported = errors.New("operation not supported")

	// ErrInvalidExpireTime 无效的过期时间
	ErrInvalidExpireTime = errors.New("invalid expire time")

	// ErrRemoteRequired 未配置远程存储
	ErrRemoteRequired = errors.New("remote storage is required")
)
