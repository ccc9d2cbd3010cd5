// Package rpc defines the Connect services exposed by the traba server: the
// request and response messages, procedure names, handler interfaces and
// typed clients.
//
// Messages are plain Go structs serialized as JSON, so handlers and clients
// must be built with the codec returned by Codec.
package rpc

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, which also selects the
// application/json content type on the wire.
const CodecName = "json"

var _ connect.Codec = (*jsonCodec)(nil)

type jsonCodec struct{}

// Codec returns the JSON codec shared by every traba service.
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string {
	return CodecName
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// An empty body is a valid empty message, notably for GET requests.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// MarshalStable is used for HTTP GET requests. Struct fields keep their
// declared order and map keys are sorted, so the output is already stable.
func (c jsonCodec) MarshalStable(msg any) ([]byte, error) {
	return c.Marshal(msg)
}

func (jsonCodec) IsBinary() bool {
	return false
}

// HandlerOptions returns the options every traba handler is built with.
func HandlerOptions(opts ...connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
}

// ClientOptions returns the options every traba client is built with.
func ClientOptions(opts ...connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
}
