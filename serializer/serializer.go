package serializer

// Serializer 负责值与字节之间的转换
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
