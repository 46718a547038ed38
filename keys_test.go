package dict

import (
	"testing"

	"github.com/biu7/redis-dict/errors"
	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

type holder struct {
	V any
}

func TestCheckKey(t *testing.T) {
	tests := []struct {
		name    string
		key     any
		wantErr bool
	}{
		{name: "字符串", key: "a"},
		{name: "整数", key: 1},
		{name: "浮点数", key: 1.5},
		{name: "布尔", key: true},
		{name: "结构体", key: point{X: 1, Y: 2}},
		{name: "数组", key: [2]string{"a", "b"}},
		{name: "指针", key: &point{}},
		{name: "接口字段为可比较值", key: holder{V: "x"}},
		{name: "接口字段为 nil", key: holder{}},
		{name: "nil", key: nil, wantErr: true},
		{name: "slice", key: []int{1}, wantErr: true},
		{name: "map", key: map[string]int{}, wantErr: true},
		{name: "func", key: func() {}, wantErr: true},
		{name: "接口字段为 slice", key: holder{V: []int{1}}, wantErr: true},
		{name: "数组元素为 map", key: [1]any{map[int]int{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkKey(tt.key)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrInvalidKey), "err = %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "abc", stringify("abc"))
	assert.Equal(t, "-7", stringify(-7))
	assert.Equal(t, "7", stringify(int32(7)))
	assert.Equal(t, "9223372036854775807", stringify(int64(9223372036854775807)))
	assert.Equal(t, "18446744073709551615", stringify(uint64(18446744073709551615)))
	assert.Equal(t, "1.5", stringify(1.5))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "{1 2}", stringify(point{X: 1, Y: 2}))

	// 不同类型的键可能得到相同的字符串
	assert.Equal(t, stringify[any](1), stringify[any]("1"))
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "users", want: "users"},
		{in: "a*", want: `a\*`},
		{in: "q?", want: `q\?`},
		{in: "[ab]", want: `\[ab\]`},
		{in: `back\slash`, want: `back\\slash`},
		{in: "中文_ns", want: "中文_ns"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeGlob(tt.in))
		})
	}
}
