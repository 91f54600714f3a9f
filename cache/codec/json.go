package codec

import "encoding/json"

// JSON is the default codec. It matches the backend's historical wire shape:
// numbers decode as float64, records as map[string]any.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func (JSON) Decode(b []byte) (any, error) {
	var v any
	err := json.Unmarshal(b, &v)
	return v, err
}
