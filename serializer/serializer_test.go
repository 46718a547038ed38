package serializer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	UserID int64             `json:"user_id" msgpack:"user_id"`
	Roles  []string          `json:"roles" msgpack:"roles"`
	Attrs  map[string]string `json:"attrs" msgpack:"attrs"`
}

func TestSerializer_RoundTrip(t *testing.T) {
	serializers := map[string]Serializer{
		"sonic":   NewSonicJson(),
		"std":     NewStdJson(),
		"msgpack": NewMsgPackCompress(),
	}

	want := session{
		UserID: 42,
		Roles:  []string{"admin", "editor"},
		Attrs:  map[string]string{"lang": "zh"},
	}

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			data, err := s.Marshal(want)
			require.NoError(t, err)

			var got session
			require.NoError(t, s.Unmarshal(data, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestSonicJson_CompatibleWithStdJson(t *testing.T) {
	value := map[string]any{"b": 1, "a": "<tag>"}

	sonicData, err := NewSonicJson().Marshal(value)
	require.NoError(t, err)
	stdData, err := NewStdJson().Marshal(value)
	require.NoError(t, err)

	// 两者字节一致，跨进程混用不会出现差异
	assert.Equal(t, string(stdData), string(sonicData))
}

func TestMsgPackCompress(t *testing.T) {
	s := NewMsgPackCompress()

	t.Run("短负载不压缩", func(t *testing.T) {
		data, err := s.Marshal("short")
		require.NoError(t, err)
		assert.Equal(t, byte(noCompression), data[len(data)-1])
	})

	t.Run("长负载使用 s2 压缩", func(t *testing.T) {
		long := strings.Repeat("redis-dict ", 64)
		data, err := s.Marshal(long)
		require.NoError(t, err)
		assert.Equal(t, byte(s2Compression), data[len(data)-1])
		assert.Less(t, len(data), len(long))

		var got string
		require.NoError(t, s.Unmarshal(data, &got))
		assert.Equal(t, long, got)
	})

	t.Run("空负载返回错误", func(t *testing.T) {
		var got string
		assert.Error(t, s.Unmarshal(nil, &got))
	})

	t.Run("未知压缩标记返回错误", func(t *testing.T) {
		var got string
		assert.Error(t, s.Unmarshal([]byte{0xa1, 'x', 0x7}, &got))
	})
}
