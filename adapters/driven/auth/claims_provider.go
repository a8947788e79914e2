package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Ensure ClaimsProvider implements ClaimsTokenProvider
var _ driven.ClaimsTokenProvider = (*ClaimsProvider)(nil)

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	UserID       string                `json:"user_id"`
	CredentialID int64                 `json:"credential_id"`
	Type         domain.CredentialType `json:"type"`
	jwt.RegisteredClaims
}

// ClaimsProvider mints and parses HS256-signed claims tokens
type ClaimsProvider struct {
	secret []byte
}

// NewClaimsProvider creates a new claims provider with the given signing
// secret
func NewClaimsProvider(secret string) *ClaimsProvider {
	return &ClaimsProvider{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT from domain claims
func (p *ClaimsProvider) GenerateToken(claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		UserID:       claims.UserID,
		CredentialID: claims.CredentialID,
		Type:         claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString(p.secret)
}

// ParseToken validates a JWT and extracts domain claims
func (p *ClaimsProvider) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwtClaims); ok && token.Valid {
		return &domain.TokenClaims{
			UserID:       claims.UserID,
			CredentialID: claims.CredentialID,
			Type:         claims.Type,
			IssuedAt:     claims.IssuedAt.Unix(),
			ExpiresAt:    claims.ExpiresAt.Unix(),
		}, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}
