package cache

import "errors"

// ErrCorrupt is returned by [Decode] when stored bytes cannot be decoded.
// Callers treat it as a miss and overwrite the entry.
var ErrCorrupt = errors.New("corrupt cache entry")
