package cache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode serialises v with msgpack.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return data, nil
}

// Decode deserialises data into v. Failures wrap [ErrCorrupt].
func Decode(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}
