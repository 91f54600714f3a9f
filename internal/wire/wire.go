// Package wire frames cache entry payloads so that foreign, truncated, or
// otherwise mangled bytes in the shared store are detected on read instead of
// being handed to a codec.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("wire: corrupt entry")
	magic4     = [...]byte{'P', 'P', 'T', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | vlen(u32 be) | payload(vlen)
func Encode(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode returns the framed payload. Trailing bytes after the declared length
// are treated as corruption.
func Decode(b []byte) ([]byte, error) {
	if !hasMagic(b) {
		return nil, ErrCorrupt
	}
	rest := b[4:]
	if len(rest) < 1+4 {
		return nil, ErrCorrupt
	}
	if rest[0] != version {
		return nil, ErrCorrupt
	}
	vlen := binary.BigEndian.Uint32(rest[1:5])
	payload := rest[5:]
	if uint32(len(payload)) != vlen {
		return nil, ErrCorrupt
	}
	return payload, nil
}
