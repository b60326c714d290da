package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName 是 content-subtype，請求的 content-type 為 application/grpc+json
const codecName = "json"

// jsonCodec 以 JSON 編碼 BankService 的訊息
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
