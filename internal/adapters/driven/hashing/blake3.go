package hashing

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// blake3Size is the digest size in bytes (256-bit output).
const blake3Size = 32

// BLAKE3 computes BLAKE3 integrity digests. Same 256-bit output width
// as SHA-256, so digests from either algorithm share a hex length.
type BLAKE3 struct{}

// Name returns "blake3".
func (BLAKE3) Name() string { return AlgorithmBLAKE3 }

// Sum returns the lowercase hex BLAKE3-256 digest of data.
func (BLAKE3) Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HexLength returns 64.
func (BLAKE3) HexLength() int { return blake3Size * 2 }
