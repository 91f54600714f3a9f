package codec

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto.Message values; Normalize passes them through
// untouched, so a protobuf-backed namespace skips the map normalization
// entirely. Encode rejects anything that is not a proto.Message.
type Protobuf struct {
	new func() proto.Message // constructor for a concrete message
}

func NewProtobuf(ctor func() proto.Message) Protobuf {
	return Protobuf{new: ctor}
}

func (c Protobuf) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, &UnsupportedTypeError{Type: reflect.TypeOf(v)}
	}
	return proto.Marshal(m)
}

func (c Protobuf) Decode(b []byte) (any, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
