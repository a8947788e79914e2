package domain

// TokenClaims represents the payload of a stateless signed claims token.
// CredentialID links the token back to the stored credential row it was
// issued alongside.
type TokenClaims struct {
	UserID       string         `json:"user_id"`
	CredentialID int64          `json:"credential_id"`
	Type         CredentialType `json:"type"`
	IssuedAt     int64          `json:"iat"`
	ExpiresAt    int64          `json:"exp"`
}
