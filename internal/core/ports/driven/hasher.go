package driven

// IntegrityHasher computes the plan's integrity digest. The plan id
// itself is always SHA-256; the integrity hash is algorithm-agile and
// the implementation is chosen by configuration at wiring time, never
// by a runtime branch inside business logic.
type IntegrityHasher interface {
	// Name returns the algorithm name (e.g. "sha256", "blake3").
	Name() string

	// Sum returns the lowercase hex digest of data.
	Sum(data []byte) string

	// HexLength returns the expected digest length in hex characters,
	// used by the core's format self-check.
	HexLength() int
}
