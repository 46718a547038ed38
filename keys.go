package dict

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/biu7/redis-dict/errors"
)

// separator 连接命名空间与逻辑键
const separator = "_"

// checkKey 拒绝无法作为映射键的值：nil 接口，以及动态类型不可比较的值
// （slice、map、func，或包含它们的结构体、数组、接口）
func checkKey[K comparable](key K) error {
	v := reflect.ValueOf(any(key))
	if !v.IsValid() {
		return fmt.Errorf("%w: nil key", errors.ErrInvalidKey)
	}
	if !v.Comparable() {
		return fmt.Errorf("%w: %T is not hashable", errors.ErrInvalidKey, key)
	}
	return nil
}

// stringify 把逻辑键转换为字符串。转换有损，字符串形式相同的不同键会互相覆盖
func stringify[K comparable](key K) string {
	switch v := any(key).(type) {
	case string:
		return v
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		// 以上足够覆盖 99% 的场景，其他类型直接 fmt 处理
		return fmt.Sprintf("%v", v)
	}
}

// escapeGlob 转义 Redis glob 元字符，命名空间本身不参与模式匹配
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
