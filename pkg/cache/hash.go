package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashKey generates a cache key of the form prefix:sha256(value).
func hashKey(prefix, value string) string {
	return fmt.Sprintf("%s:%s", prefix, Hash([]byte(value)))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
