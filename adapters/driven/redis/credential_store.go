package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

const (
	// Key prefixes for Redis
	credentialPrefix     = "credential:"
	credentialUserPrefix = "credential:user:"

	// counterKey assigns monotonic credential IDs via INCR
	counterKey = "credential:next_id"

	// txLockName serializes multi-command write units across instances
	txLockName = "credentials:tx"
	txLockTTL  = 10 * time.Second
)

// CredentialStore implements driven.CredentialStore using Redis.
// IDs come from an INCR counter so they stay monotonic like a serial
// column. Expiring credentials carry a Redis TTL; reads still re-check
// expiry so a not-yet-evicted key never validates.
type CredentialStore struct {
	client *redis.Client
	lock   *Lock
}

// NewCredentialStore creates a new Redis-backed CredentialStore
func NewCredentialStore(client *redis.Client) *CredentialStore {
	return &CredentialStore{
		client: client,
		lock:   NewLock(client),
	}
}

func credentialKey(id int64) string {
	return credentialPrefix + strconv.FormatInt(id, 10)
}

func userIndexKey(userID string, typ domain.CredentialType) string {
	return credentialUserPrefix + userID + ":" + string(typ)
}

// Insert persists a new credential and returns it with its assigned ID
// and creation timestamp
func (s *CredentialStore) Insert(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	id, err := s.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to assign credential id: %w", err)
	}

	inserted := *cred
	inserted.ID = id
	inserted.CreatedAt = time.Now().UTC()

	// An already-expired credential is unusable; assign the id but
	// store nothing.
	var ttl time.Duration
	if inserted.ExpiresAt != nil {
		ttl = time.Until(*inserted.ExpiresAt)
		if ttl <= 0 {
			return &inserted, nil
		}
	}

	data, err := json.Marshal(&inserted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialKey(id), data, ttl)
	pipe.SAdd(ctx, userIndexKey(inserted.UserID, inserted.Type), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}

	return &inserted, nil
}

// getByID fetches a credential blob, mapping missing or lapsed entries
// to domain.ErrNotFound
func (s *CredentialStore) getByID(ctx context.Context, id int64) (*domain.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	// Double-check expiry; Redis eviction is not instantaneous
	if cred.IsExpired() {
		return nil, domain.ErrNotFound
	}

	return &cred, nil
}

// GetLive retrieves a non-expired credential by ID and type
func (s *CredentialStore) GetLive(ctx context.Context, id int64, typ domain.CredentialType) (*domain.Credential, error) {
	cred, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cred.Type != typ {
		return nil, domain.ErrNotFound
	}
	return cred, nil
}

// GetLiveForUser retrieves a non-expired credential by ID, type, and owner
func (s *CredentialStore) GetLiveForUser(ctx context.Context, id int64, typ domain.CredentialType, userID string) (*domain.Credential, error) {
	cred, err := s.GetLive(ctx, id, typ)
	if err != nil {
		return nil, err
	}
	if cred.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return cred, nil
}

// GetLivePassword retrieves the single live password credential for a user
func (s *CredentialStore) GetLivePassword(ctx context.Context, userID string) (*domain.Credential, error) {
	creds, err := s.ListLive(ctx, userID, domain.CredentialTypePassword)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, domain.ErrNotFound
	}
	return creds[0], nil
}

// ListLive retrieves all non-expired credentials of a type for a user,
// newest first
func (s *CredentialStore) ListLive(ctx context.Context, userID string, typ domain.CredentialType) ([]*domain.Credential, error) {
	indexKey := userIndexKey(userID, typ)
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user credentials: %w", err)
	}

	var creds []*domain.Credential
	var lapsed []interface{}

	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			lapsed = append(lapsed, member)
			continue
		}

		cred, err := s.getByID(ctx, id)
		if err == domain.ErrNotFound {
			// Credential expired out from under the index
			lapsed = append(lapsed, member)
			continue
		}
		if err != nil {
			return nil, err
		}

		creds = append(creds, cred)
	}

	// Clean up lapsed ids from the index set
	if len(lapsed) > 0 {
		s.client.SRem(ctx, indexKey, lapsed...)
	}

	sort.Slice(creds, func(i, j int) bool {
		return creds[i].CreatedAt.After(creds[j].CreatedAt)
	})

	return creds, nil
}

// DeleteByUserAndType hard-deletes all credentials of a type for a user.
// Deleting zero rows is not an error.
func (s *CredentialStore) DeleteByUserAndType(ctx context.Context, userID string, typ domain.CredentialType) error {
	indexKey := userIndexKey(userID, typ)
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get user credentials: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		pipe.Del(ctx, credentialKey(id))
	}
	pipe.Del(ctx, indexKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

// InTx serializes fn behind a distributed lock. Redis executes single
// commands atomically but offers no cross-command rollback, so mutual
// exclusion is what keeps delete-then-insert units from interleaving.
func (s *CredentialStore) InTx(ctx context.Context, fn func(ctx context.Context, store driven.CredentialStore) error) error {
	for {
		acquired, err := s.lock.Acquire(ctx, txLockName, txLockTTL)
		if err != nil {
			return err
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	defer func() { _ = s.lock.Release(ctx, txLockName) }()

	return fn(ctx, s)
}
