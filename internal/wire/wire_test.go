package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte("x"), []byte(`{"a":1}`), bytes.Repeat([]byte{0xab}, 4096)} {
		enc := Encode(payload)
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %d bytes, want %d", len(got), len(payload))
		}
	}
}

func TestDecodeRejectsForeignBytes(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("not a cache entry"),
		[]byte(`{"looks":"like json"}`),
		{'P', 'P', 'T', 'C'},             // magic only
		{'P', 'P', 'T', 'C', 99, 0, 0, 0, 0}, // unknown version
	}
	for _, b := range cases {
		if _, err := Decode(b); err == nil {
			t.Fatalf("Decode(%q) expected error", b)
		}
	}
}

func TestDecodeRejectsTrailing(t *testing.T) {
	enc := Encode([]byte("payload"))
	enc = append(enc, 0x00)
	if _, err := Decode(enc); err == nil {
		t.Fatal("Decode with trailing byte expected error")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	enc := Encode([]byte("payload"))
	if _, err := Decode(enc[:len(enc)-2]); err == nil {
		t.Fatal("Decode truncated expected error")
	}
}
