// Package codec serializes cache values to bytes.
//
// The map-shaped codecs (JSON, Msgpack, CBOR) pass values through Normalize
// first, so only the closed variant set ever reaches the wire; anything else
// fails at encode time instead of storing bytes no reader can interpret.
package codec

// Codec encodes/decodes cache values to []byte for storage. Decode returns
// the generic form of the value (maps, slices, scalars), not the original
// static type: cached results re-materialize the way a JSON payload would.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}
