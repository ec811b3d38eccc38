// Package apiconnect wires the splitledger.v1 services to Connect handlers
// and clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec marshals the plain Go messages in package api with encoding/json.
// It is registered under "json", replacing Connect's protobuf JSON codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (JSONCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
}
