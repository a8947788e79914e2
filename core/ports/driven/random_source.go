package driven

// RandomSource supplies cryptographically secure random bytes for token
// minting. A separate port so tests can make minted tokens deterministic.
type RandomSource interface {
	// Bytes returns n random bytes
	Bytes(n int) ([]byte, error)
}
