package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure MockCredentialStore implements CredentialStore
var _ driven.CredentialStore = (*MockCredentialStore)(nil)

// MockCredentialStore is an in-memory mock implementation of
// CredentialStore for testing. It assigns monotonic IDs and filters
// expired rows at read time like the real adapters. Reads counts the
// number of lookups made so tests can assert that malformed input never
// reaches storage.
type MockCredentialStore struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	creds  map[int64]*domain.Credential
	nextID int64

	// Reads counts lookup calls (GetLive*, ListLive)
	Reads int

	// InsertErr, when set, is returned by every Insert call
	InsertErr error
}

// NewMockCredentialStore creates a new MockCredentialStore
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{
		creds: make(map[int64]*domain.Credential),
	}
}

func live(c *domain.Credential) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(time.Now())
}

func (m *MockCredentialStore) Insert(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	inserted := *cred
	inserted.ID = m.nextID
	inserted.CreatedAt = time.Now()
	m.creds[inserted.ID] = &inserted
	out := inserted
	return &out, nil
}

func (m *MockCredentialStore) GetLive(ctx context.Context, id int64, typ domain.CredentialType) (*domain.Credential, error) {
	m.mu.Lock()
	m.Reads++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	cred, ok := m.creds[id]
	if !ok || cred.Type != typ || !live(cred) {
		return nil, domain.ErrNotFound
	}
	out := *cred
	return &out, nil
}

func (m *MockCredentialStore) GetLiveForUser(ctx context.Context, id int64, typ domain.CredentialType, userID string) (*domain.Credential, error) {
	cred, err := m.GetLive(ctx, id, typ)
	if err != nil {
		return nil, err
	}
	if cred.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return cred, nil
}

func (m *MockCredentialStore) GetLivePassword(ctx context.Context, userID string) (*domain.Credential, error) {
	creds, err := m.ListLive(ctx, userID, domain.CredentialTypePassword)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, domain.ErrNotFound
	}
	newest := creds[0]
	for _, c := range creds[1:] {
		if c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	return newest, nil
}

func (m *MockCredentialStore) ListLive(ctx context.Context, userID string, typ domain.CredentialType) ([]*domain.Credential, error) {
	m.mu.Lock()
	m.Reads++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Credential
	for _, cred := range m.creds {
		if cred.UserID == userID && cred.Type == typ && live(cred) {
			out := *cred
			result = append(result, &out)
		}
	}
	return result, nil
}

func (m *MockCredentialStore) DeleteByUserAndType(ctx context.Context, userID string, typ domain.CredentialType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cred := range m.creds {
		if cred.UserID == userID && cred.Type == typ {
			delete(m.creds, id)
		}
	}
	return nil
}

// InTx serializes transactional units the way a real store would
func (m *MockCredentialStore) InTx(ctx context.Context, fn func(ctx context.Context, store driven.CredentialStore) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

// Count returns the number of stored rows of a type for a user,
// including expired ones
func (m *MockCredentialStore) Count(userID string, typ domain.CredentialType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, cred := range m.creds {
		if cred.UserID == userID && cred.Type == typ {
			n++
		}
	}
	return n
}

// Expire force-expires a stored credential by ID
func (m *MockCredentialStore) Expire(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cred, ok := m.creds[id]; ok {
		past := time.Now().Add(-1 * time.Second)
		cred.ExpiresAt = &past
	}
}

// ReadCount returns the number of lookup calls made so far
func (m *MockCredentialStore) ReadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Reads
}
