package auth

import (
	"crypto/rand"
	"fmt"

	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure CryptoRand implements RandomSource
var _ driven.RandomSource = (*CryptoRand)(nil)

// CryptoRand implements driven.RandomSource using crypto/rand
type CryptoRand struct{}

// NewCryptoRand creates a new crypto/rand-backed RandomSource
func NewCryptoRand() *CryptoRand {
	return &CryptoRand{}
}

// Bytes returns n cryptographically secure random bytes
func (r *CryptoRand) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
