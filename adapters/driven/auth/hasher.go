package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure BcryptHasher implements SecretHasher
var _ driven.SecretHasher = (*BcryptHasher)(nil)

// BcryptHasher implements driven.SecretHasher using bcrypt.
// Costs below bcrypt's minimum are clamped up to it, so a configured
// cost of 0 or 1 still produces a valid digest at the cheapest setting.
type BcryptHasher struct{}

// NewBcryptHasher creates a new bcrypt-backed SecretHasher
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash generates a bcrypt digest of plaintext at the given cost
func (h *BcryptHasher) Hash(plaintext string, cost int) (string, error) {
	if cost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: hash cost %d exceeds maximum %d", domain.ErrInvalidInput, cost, bcrypt.MaxCost)
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare checks if plaintext matches a bcrypt digest.
// Garbage digests and mismatches both return false.
func (h *BcryptHasher) Compare(plaintext, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	return err == nil
}
