package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form prefix:hash(parts...). The parts are
// JSON-encoded before hashing so struct options key deterministically.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string. Spec
// text and solved grids are addressed by this hash throughout the pipeline.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
