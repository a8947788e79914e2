package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
	"github.com/custodia-labs/credential-core/core/ports/driving"
)

// Ensure credentialService implements CredentialService
var _ driving.CredentialService = (*credentialService)(nil)

// CostConfig maps each credential type to the hash work factor used for
// its secrets. Every credential type must have an entry.
type CostConfig map[domain.CredentialType]int

// DefaultCosts returns the standard work factors. Session tokens hash
// cheaply: they are high-entropy and short-lived, so offline guessing
// gains little from a slow hash, while validation throughput gains a lot.
// Third-party credentials carry no independent secret.
func DefaultCosts() CostConfig {
	return CostConfig{
		domain.CredentialTypePassword:        10,
		domain.CredentialTypeThirdParty:      0,
		domain.CredentialTypeSessionToken:    1,
		domain.CredentialTypePrivilegedToken: 10,
	}
}

// credentialService implements the CredentialService interface
type credentialService struct {
	store  driven.CredentialStore
	hasher driven.SecretHasher
	random driven.RandomSource
	costs  CostConfig
}

// NewCredentialService creates a new CredentialService.
// A nil costs config uses DefaultCosts.
func NewCredentialService(
	store driven.CredentialStore,
	hasher driven.SecretHasher,
	random driven.RandomSource,
	costs CostConfig,
) driving.CredentialService {
	if costs == nil {
		costs = DefaultCosts()
	}
	return &credentialService{
		store:  store,
		hasher: hasher,
		random: random,
		costs:  costs,
	}
}

// costFor resolves the work factor for a credential type
func (s *credentialService) costFor(typ domain.CredentialType) (int, error) {
	if !typ.Valid() {
		return 0, fmt.Errorf("%w: unknown credential type %q", domain.ErrInvalidInput, typ)
	}
	cost, ok := s.costs[typ]
	if !ok {
		return 0, fmt.Errorf("%w: no hash cost configured for type %q", domain.ErrInvalidInput, typ)
	}
	if cost < 0 {
		return 0, fmt.Errorf("%w: negative hash cost for type %q", domain.ErrInvalidInput, typ)
	}
	return cost, nil
}

// GenerateToken mints a raw token and its hash without persisting anything
func (s *credentialService) GenerateToken(typ domain.CredentialType, length int) (*driving.TokenDigest, error) {
	cost, err := s.costFor(typ)
	if err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, fmt.Errorf("%w: token length must be >= 1", domain.ErrInvalidInput)
	}

	raw, err := s.random.Bytes(length)
	if err != nil {
		return nil, fmt.Errorf("draw random bytes: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(raw)

	hash, err := s.hasher.Hash(token, cost)
	if err != nil {
		return nil, fmt.Errorf("hash token: %w", err)
	}

	return &driving.TokenDigest{Token: token, Hash: hash}, nil
}

// IssueToken mints a token, persists its hash, and returns the composite
// bearer string "<token>.<id>"
func (s *credentialService) IssueToken(ctx context.Context, req driving.IssueTokenRequest) (string, error) {
	if req.UserID == "" {
		return "", fmt.Errorf("%w: user id required", domain.ErrInvalidInput)
	}

	length := req.Length
	if length == 0 {
		length = driving.DefaultTokenLength
	}

	// Mint before touching the store so bad config writes nothing
	digest, err := s.GenerateToken(req.Type, length)
	if err != nil {
		return "", err
	}

	maxAge := req.MaxAge
	if maxAge == 0 {
		maxAge = driving.DefaultTokenMaxAge
	}
	var expiresAt *time.Time
	if maxAge > 0 {
		t := time.Now().Add(maxAge)
		expiresAt = &t
	}

	cred, err := s.store.Insert(ctx, &domain.Credential{
		UserID:    req.UserID,
		Type:      req.Type,
		Secret:    digest.Hash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s.%d", digest.Token, cred.ID), nil
}

// splitBearer parses a composite bearer string into its raw token and
// row id. Failures are structural; no storage is touched here.
func splitBearer(bearer string) (token string, id int64, err error) {
	parts := strings.Split(bearer, ".")
	if len(parts) != 2 {
		return "", 0, domain.ErrUnauthorized
	}
	id, perr := strconv.ParseInt(parts[1], 10, 64)
	if perr != nil || parts[0] == "" {
		return "", 0, domain.ErrUnauthorized
	}
	return parts[0], id, nil
}

// matchToken is the single matching path shared by every token
// validation shape. All rejections surface as domain.ErrUnauthorized so
// callers cannot tell a malformed bearer from a missing row from a
// wrong secret. Storage failures propagate unchanged.
func (s *credentialService) matchToken(ctx context.Context, userID string, typ domain.CredentialType, bearer string) (*domain.CredentialSummary, error) {
	token, id, err := splitBearer(bearer)
	if err != nil {
		return nil, err
	}

	var cred *domain.Credential
	if userID == "" {
		cred, err = s.store.GetLive(ctx, id, typ)
	} else {
		cred, err = s.store.GetLiveForUser(ctx, id, typ, userID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Compare(token, cred.Secret) {
		return nil, domain.ErrUnauthorized
	}

	return cred.ToSummary(), nil
}

// ValidateToken checks a bearer string against the stored secret it names
func (s *credentialService) ValidateToken(ctx context.Context, typ domain.CredentialType, bearer string) (*domain.CredentialSummary, error) {
	return s.matchToken(ctx, "", typ, bearer)
}

// ValidateTokenForUser is ValidateToken pinned to an expected owner
func (s *credentialService) ValidateTokenForUser(ctx context.Context, userID string, typ domain.CredentialType, bearer string) (*domain.CredentialSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.matchToken(ctx, userID, typ, bearer)
}

// CheckToken is the non-throwing shape of ValidateToken
func (s *credentialService) CheckToken(ctx context.Context, typ domain.CredentialType, bearer string) (bool, error) {
	_, err := s.matchToken(ctx, "", typ, bearer)
	if errors.Is(err, domain.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ValidateCredential checks a plaintext against every live credential of
// (userID, type), accepting if any hash matches
func (s *credentialService) ValidateCredential(ctx context.Context, userID string, typ domain.CredentialType, plaintext string) (bool, error) {
	if userID == "" || plaintext == "" {
		return false, nil
	}

	creds, err := s.store.ListLive(ctx, userID, typ)
	if err != nil {
		return false, err
	}

	for _, cred := range creds {
		if s.hasher.Compare(plaintext, cred.Secret) {
			return true, nil
		}
	}
	return false, nil
}

// SetPassword atomically replaces the user's password credential
func (s *credentialService) SetPassword(ctx context.Context, userID, password string, expiresAt *time.Time) error {
	if userID == "" || password == "" {
		return fmt.Errorf("%w: user id and password required", domain.ErrInvalidInput)
	}

	cost, err := s.costFor(domain.CredentialTypePassword)
	if err != nil {
		return err
	}

	// Hash outside the transaction; it is the expensive step
	hash, err := s.hasher.Hash(password, cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.store.InTx(ctx, func(ctx context.Context, store driven.CredentialStore) error {
		if err := store.DeleteByUserAndType(ctx, userID, domain.CredentialTypePassword); err != nil {
			return err
		}
		_, err := store.Insert(ctx, &domain.Credential{
			UserID:    userID,
			Type:      domain.CredentialTypePassword,
			Secret:    hash,
			ExpiresAt: expiresAt,
		})
		return err
	})
}

// matchPassword is the single matching path shared by both password
// validation shapes
func (s *credentialService) matchPassword(ctx context.Context, userID, password string) error {
	if userID == "" || password == "" {
		return domain.ErrUnauthorized
	}

	cred, err := s.store.GetLivePassword(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return err
	}

	if !s.hasher.Compare(password, cred.Secret) {
		return domain.ErrUnauthorized
	}
	return nil
}

// ValidatePassword checks a password against the user's live password
// credential
func (s *credentialService) ValidatePassword(ctx context.Context, userID, password string) error {
	return s.matchPassword(ctx, userID, password)
}

// CheckPassword is the non-throwing shape of ValidatePassword
func (s *credentialService) CheckPassword(ctx context.Context, userID, password string) (bool, error) {
	err := s.matchPassword(ctx, userID, password)
	if errors.Is(err, domain.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
