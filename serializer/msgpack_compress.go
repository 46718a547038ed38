package serializer

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// 小于该长度的负载不压缩
	compressionThreshold = 64

	noCompression = 0x0
	s2Compression = 0x1
)

var _ Serializer = (*msgpackCompress)(nil)

// msgpackCompress 在 msgpack 负载末尾追加一个字节标记压缩方式
type msgpackCompress struct{}

func NewMsgPackCompress() Serializer {
	return &msgpackCompress{}
}

func (msgpackCompress) Marshal(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("msgpack marshal: %w", err)
	}

	return compress(b), nil
}

func (msgpackCompress) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("msgpack unmarshal: empty payload")
	}

	payload := data[:len(data)-1]
	switch c := data[len(data)-1]; c {
	case noCompression:
	case s2Compression:
		var err error
		payload, err = s2.Decode(nil, payload)
		if err != nil {
			return fmt.Errorf("s2 decode: %w", err)
		}
	default:
		return fmt.Errorf("unknown compression method: %x", c)
	}

	return msgpack.Unmarshal(payload, v)
}

func compress(data []byte) []byte {
	if len(data) < compressionThreshold {
		b := make([]byte, len(data)+1)
		copy(b, data)
		b[len(b)-1] = noCompression
		return b
	}

	b := s2.Encode(make([]byte, s2.MaxEncodedLen(len(data))+1), data)
	return append(b, s2Compression)
}
