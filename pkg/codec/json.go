package codec

import "encoding/json"

// JSON is a Codec that serializes values with encoding/json.
// The zero value is ready to use. JSON is the default cache wire format.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

func (JSON[V]) Name() string { return "json" }
