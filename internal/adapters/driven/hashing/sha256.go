// Package hashing provides the integrity-hash implementations behind
// the core's IntegrityHasher port. The algorithm is chosen once at
// wiring time from configuration; the core never branches on it.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
)

// Algorithm names accepted by New.
const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBLAKE3 = "blake3"
)

// New returns the hasher for the named algorithm. BLAKE3 is the
// preferred default; SHA-256 is the compatibility fallback.
func New(algorithm string) (driven.IntegrityHasher, error) {
	switch algorithm {
	case AlgorithmSHA256:
		return SHA256{}, nil
	case AlgorithmBLAKE3, "":
		return BLAKE3{}, nil
	default:
		return nil, fmt.Errorf("unknown integrity hash algorithm %q (want %s or %s)",
			algorithm, AlgorithmBLAKE3, AlgorithmSHA256)
	}
}

// SHA256 computes SHA-256 integrity digests.
type SHA256 struct{}

// Name returns "sha256".
func (SHA256) Name() string { return AlgorithmSHA256 }

// Sum returns the lowercase hex SHA-256 digest of data.
func (SHA256) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HexLength returns 64.
func (SHA256) HexLength() int { return sha256.Size * 2 }
