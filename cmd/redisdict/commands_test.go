package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, mr *miniredis.Miniredis, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--url", "redis://" + mr.Addr()}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "写入 JSON", args: []string{"-n", "users", "set", "alice", `{"age":30}`}, want: "OK\n"},
		{name: "写入普通字符串", args: []string{"-n", "users", "set", "bob", "hello"}, want: "OK\n"},
		{name: "读取", args: []string{"-n", "users", "get", "alice"}, want: "{\"age\":30}\n"},
		{name: "读取字符串", args: []string{"-n", "users", "get", "bob"}, want: "\"hello\"\n"},
		{name: "存在", args: []string{"-n", "users", "has", "alice"}, want: "true\n"},
		{name: "不存在", args: []string{"-n", "users", "has", "carol"}, want: "false\n"},
		{name: "数量", args: []string{"-n", "users", "len"}, want: "2\n"},
		{name: "键", args: []string{"-n", "users", "keys"}, want: "alice\nbob\n"},
		{name: "键值对", args: []string{"-n", "users", "items"}, want: "alice\t{\"age\":30}\nbob\t\"hello\"\n"},
		{name: "无过期时间", args: []string{"-n", "users", "ttl", "alice"}, want: "no expiry\n"},
		{name: "键不存在时的过期时间", args: []string{"-n", "users", "ttl", "carol"}, want: "not found\n"},
		{name: "其他命名空间为空", args: []string{"-n", "orders", "len"}, want: "0\n"},
		{name: "删除", args: []string{"-n", "users", "del", "bob", "carol"}, want: "OK\n"},
		{name: "删除后数量", args: []string{"-n", "users", "len"}, want: "1\n"},
		{name: "清空", args: []string{"-n", "users", "clear"}, want: "OK\n"},
		{name: "清空后数量", args: []string{"-n", "users", "len"}, want: "0\n"},
	}

	// 顺序执行，后面的用例依赖前面写入的数据
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, mr, tt.args...)
			require.NoError(t, err, out)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCommands_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "-n", "sess", "--expiry", "1m", "set", "a", "1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("sess_a"))

	out, err := run(t, mr, "-n", "sess", "ttl", "a")
	require.NoError(t, err)
	assert.Equal(t, "1m0s\n", out)
}

func TestCommands_Errors(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "get", "missing")
	assert.ErrorContains(t, err, "key not found")

	_, err = run(t, mr, "--serializer", "xml", "len")
	assert.ErrorContains(t, err, "invalid serializer")

	_, err = run(t, mr, "--expiry", "-1s", "len")
	assert.ErrorContains(t, err, "invalid expire time")
}

func TestCommands_Msgpack(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "--serializer", "msgpack", "set", "k", `[1,2,3]`)
	require.NoError(t, err)

	out, err := run(t, mr, "--serializer", "msgpack", "get", "k")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]\n", out)
}

func TestCommands_Env(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDISDICT_NAMESPACE", "fromenv")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--url", "redis://" + mr.Addr(), "set", "k", "1"})
	require.NoError(t, root.Execute())

	assert.True(t, mr.Exists("fromenv_k"))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "redisdict v"))
}

func TestWrapString(t *testing.T) {
	wrapped := WrapString(strings.Repeat("word ", 30))
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
}
