package domain

import "time"

// CredentialType identifies the kind of secret a credential carries
type CredentialType string

const (
	CredentialTypePassword        CredentialType = "password"
	CredentialTypeThirdParty      CredentialType = "third_party"
	CredentialTypeSessionToken    CredentialType = "session_token"
	CredentialTypePrivilegedToken CredentialType = "privileged_token"
)

// CredentialTypes lists every known credential type. Cost tables and
// validation switches must cover all of them.
var CredentialTypes = []CredentialType{
	CredentialTypePassword,
	CredentialTypeThirdParty,
	CredentialTypeSessionToken,
	CredentialTypePrivilegedToken,
}

// Valid reports whether t is a member of the closed type set
func (t CredentialType) Valid() bool {
	switch t {
	case CredentialTypePassword, CredentialTypeThirdParty,
		CredentialTypeSessionToken, CredentialTypePrivilegedToken:
		return true
	}
	return false
}

// Credential is a persisted record binding a user identity to a hashed
// secret. Secret always holds the one-way hash of the verifier, never
// the plaintext password or raw bearer token.
type Credential struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Type      CredentialType `json:"type"`
	Secret    string         `json:"-"` // Never serialize
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CredentialSummary provides a safe view without the hashed secret
type CredentialSummary struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Type      CredentialType `json:"type"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToSummary converts a Credential to a CredentialSummary
func (c *Credential) ToSummary() *CredentialSummary {
	return &CredentialSummary{
		ID:        c.ID,
		UserID:    c.UserID,
		Type:      c.Type,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

// IsExpired checks if the credential's expiry has passed.
// A nil ExpiresAt means the credential never expires.
func (c *Credential) IsExpired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(time.Now())
}
