package driven

import "github.com/custodia-labs/credential-core/core/domain"

// ClaimsTokenProvider mints and parses stateless signed claims tokens.
// These are an adjunct for hosts that want a self-describing token next
// to the stored bearer credential; they play no part in stored-secret
// validation.
type ClaimsTokenProvider interface {
	// GenerateToken creates a signed token from the claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a signed token and extracts its claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
