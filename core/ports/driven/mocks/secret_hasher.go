package mocks

import (
	"fmt"

	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure MockSecretHasher implements SecretHasher
var _ driven.SecretHasher = (*MockSecretHasher)(nil)

// MockSecretHasher is a mock implementation of SecretHasher for testing.
// Digests are "hashed:<cost>:<plaintext>" so tests can assert on the
// cost a secret was hashed at. NOT secure - only for testing.
type MockSecretHasher struct {
	// HashErr, when set, is returned by every Hash call
	HashErr error
}

// NewMockSecretHasher creates a new MockSecretHasher
func NewMockSecretHasher() *MockSecretHasher {
	return &MockSecretHasher{}
}

// Hash returns a reversible fake digest embedding the cost
func (m *MockSecretHasher) Hash(plaintext string, cost int) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return fmt.Sprintf("hashed:%d:%s", cost, plaintext), nil
}

// Compare checks plaintext against a fake digest from Hash
func (m *MockSecretHasher) Compare(plaintext, digest string) bool {
	for cost := 0; cost <= 31; cost++ {
		if digest == fmt.Sprintf("hashed:%d:%s", cost, plaintext) {
			return true
		}
	}
	return false
}
