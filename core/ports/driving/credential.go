package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/credential-core/core/domain"
)

const (
	// DefaultTokenLength is the number of random bytes drawn for a
	// minted token. 32 bytes encode to a 43-character base64url string.
	DefaultTokenLength = 32

	// DefaultTokenMaxAge is the token lifetime used when a request
	// leaves MaxAge unset: one year.
	DefaultTokenMaxAge = 525600 * time.Minute

	// NoExpiry requests a non-expiring credential
	NoExpiry time.Duration = -1
)

// TokenDigest pairs a freshly minted raw token with its hash. The raw
// token is shown to the caller exactly once; only the hash is persisted.
type TokenDigest struct {
	Token string
	Hash  string
}

// IssueTokenRequest describes a token to mint and persist
type IssueTokenRequest struct {
	UserID string
	Type   domain.CredentialType

	// MaxAge bounds the token lifetime. Zero means DefaultTokenMaxAge;
	// NoExpiry (or any negative value) means the token never expires.
	MaxAge time.Duration

	// Length is the random byte count, DefaultTokenLength when zero
	Length int
}

// CredentialService mints, stores, and validates credentials
type CredentialService interface {
	// GenerateToken mints a raw token and its hash without persisting
	// anything. Unknown type or length < 1 fails before any I/O.
	GenerateToken(typ domain.CredentialType, length int) (*TokenDigest, error)

	// IssueToken mints a token, persists its hash, and returns the
	// composite bearer string "<token>.<id>".
	IssueToken(ctx context.Context, req IssueTokenRequest) (string, error)

	// ValidateToken checks a bearer string against the stored secret it
	// names. Any rejection is domain.ErrUnauthorized; storage failures
	// propagate unchanged.
	ValidateToken(ctx context.Context, typ domain.CredentialType, bearer string) (*domain.CredentialSummary, error)

	// ValidateTokenForUser is ValidateToken additionally pinned to an
	// expected owner.
	ValidateTokenForUser(ctx context.Context, userID string, typ domain.CredentialType, bearer string) (*domain.CredentialSummary, error)

	// CheckToken is the non-throwing shape of ValidateToken: false on
	// any rejection, an error only when storage fails.
	CheckToken(ctx context.Context, typ domain.CredentialType, bearer string) (bool, error)

	// ValidateCredential checks a plaintext against every live
	// credential of (userID, type), accepting if any hash matches.
	// Suits kinds with several simultaneously valid secrets.
	ValidateCredential(ctx context.Context, userID string, typ domain.CredentialType, plaintext string) (bool, error)

	// SetPassword atomically replaces the user's password credential:
	// prior password rows are hard-deleted and a fresh row inserted
	// within one storage transaction.
	SetPassword(ctx context.Context, userID, password string, expiresAt *time.Time) error

	// ValidatePassword checks a password against the user's live
	// password credential. Any rejection is domain.ErrUnauthorized.
	ValidatePassword(ctx context.Context, userID, password string) error

	// CheckPassword is the non-throwing shape of ValidatePassword
	CheckPassword(ctx context.Context, userID, password string) (bool, error)
}
