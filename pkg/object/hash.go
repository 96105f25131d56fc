package object

import (
	"crypto/sha1"
	"encoding/hex"
)

// HashBytes computes the raw SHA-1 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the digest of the canonical form of (kind, payload).
// The digest always covers the complete canonical buffer; it is never
// derived from a streaming writer's byte count.
func HashObject(kind Kind, payload []byte) Hash {
	return HashBytes(Encode(kind, payload))
}
