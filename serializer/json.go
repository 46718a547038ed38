package serializer

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

var (
	_ Serializer = (*sonicJson)(nil)
	_ Serializer = (*stdJson)(nil)
)

// sonicJson 使用 sonic.ConfigStd，输出与 encoding/json 一致，
// 不同进程可以混用两种 JSON 序列化器读写同一命名空间
type sonicJson struct {
	api sonic.API
}

func NewSonicJson() Serializer {
	return &sonicJson{api: sonic.ConfigStd}
}

// Marshal implements Serializer.
func (s *sonicJson) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

// Unmarshal implements Serializer.
func (s *sonicJson) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

// 标准库 JSON
type stdJson struct{}

func NewStdJson() Serializer {
	return &stdJson{}
}

// Marshal implements Serializer.
func (s *stdJson) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Serializer.
func (s *stdJson) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
