package driven

import (
	"context"

	"github.com/custodia-labs/credential-core/core/domain"
)

// CredentialStore handles credential persistence.
// "Live" means the row exists and its expiry is either unset or in the
// future; expired rows are filtered at read time, never reaped here.
type CredentialStore interface {
	// Insert persists a new credential and returns it with the
	// store-assigned ID and CreatedAt filled in.
	Insert(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)

	// GetLive retrieves a live credential by ID and type.
	// Returns domain.ErrNotFound on miss or expiry.
	GetLive(ctx context.Context, id int64, typ domain.CredentialType) (*domain.Credential, error)

	// GetLiveForUser retrieves a live credential by ID, type, and owner.
	// Returns domain.ErrNotFound on miss or expiry.
	GetLiveForUser(ctx context.Context, id int64, typ domain.CredentialType, userID string) (*domain.Credential, error)

	// GetLivePassword retrieves the single live password credential for
	// a user. Returns domain.ErrNotFound if none exists.
	GetLivePassword(ctx context.Context, userID string) (*domain.Credential, error)

	// ListLive retrieves all live credentials of a type for a user
	ListLive(ctx context.Context, userID string, typ domain.CredentialType) ([]*domain.Credential, error)

	// DeleteByUserAndType hard-deletes all credentials of a type for a
	// user. Deleting zero rows is not an error.
	DeleteByUserAndType(ctx context.Context, userID string, typ domain.CredentialType) error

	// InTx runs fn against a transaction-scoped view of the store.
	// Writes made inside fn become visible atomically when fn returns
	// nil; any error rolls the whole unit back. Password replacement
	// must run inside InTx so concurrent validators never observe the
	// delete without the insert.
	InTx(ctx context.Context, fn func(ctx context.Context, store CredentialStore) error) error
}
