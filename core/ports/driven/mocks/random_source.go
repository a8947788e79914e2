package mocks

import (
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure MockRandomSource implements RandomSource
var _ driven.RandomSource = (*MockRandomSource)(nil)

// MockRandomSource is a deterministic RandomSource for testing. Each
// call returns n bytes counting up from a per-call seed, so successive
// mints still produce distinct tokens.
type MockRandomSource struct {
	// Err, when set, is returned by every Bytes call
	Err error

	calls byte
}

// NewMockRandomSource creates a new MockRandomSource
func NewMockRandomSource() *MockRandomSource {
	return &MockRandomSource{}
}

// Bytes returns n deterministic bytes
func (m *MockRandomSource) Bytes(n int) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.calls++
	b := make([]byte, n)
	for i := range b {
		b[i] = m.calls + byte(i)
	}
	return b, nil
}
