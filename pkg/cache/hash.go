package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey returns the cache key of a rendered artifact.
// The format is: artifact:<format>:hash(dot)
func ArtifactKey(dot, format string) string {
	return "artifact:" + format + ":" + Hash([]byte(dot))
}
