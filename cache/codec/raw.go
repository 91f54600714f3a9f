package codec

import "reflect"

// Bytes is an identity codec for []byte values. Useful when a handler caches
// pre-rendered payloads and only needs the cache's framing and TTLs.
type Bytes struct{}

func (Bytes) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, &UnsupportedTypeError{Type: reflect.TypeOf(v)}
	}
	return b, nil
}

func (Bytes) Decode(b []byte) (any, error) { return b, nil }

// String is a trivial codec for Go string values. By convention this assumes
// UTF-8 and performs no validation.
type String struct{}

func (String) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, &UnsupportedTypeError{Type: reflect.TypeOf(v)}
	}
	return []byte(s), nil
}

func (String) Decode(b []byte) (any, error) { return string(b), nil }
