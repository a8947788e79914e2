package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx, letting the same
// query methods serve the plain and transaction-scoped store.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CredentialStore implements driven.CredentialStore using PostgreSQL
type CredentialStore struct {
	db *DB // nil when this store is scoped to a transaction
	q  querier
}

// NewCredentialStore creates a new CredentialStore
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db, q: db.DB}
}

// Insert persists a new credential and returns it with its assigned ID
// and creation timestamp
func (s *CredentialStore) Insert(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	query := `
		INSERT INTO credentials (user_id, type, secret, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	inserted := *cred
	err := s.q.QueryRowContext(ctx, query,
		cred.UserID,
		string(cred.Type),
		cred.Secret,
		NullTime(cred.ExpiresAt),
	).Scan(&inserted.ID, &inserted.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}

// GetLive retrieves a non-expired credential by ID and type
func (s *CredentialStore) GetLive(ctx context.Context, id int64, typ domain.CredentialType) (*domain.Credential, error) {
	query := `
		SELECT id, user_id, type, secret, expires_at, created_at
		FROM credentials
		WHERE id = $1 AND type = $2
		  AND (expires_at IS NULL OR expires_at > now())
	`
	return s.scanOne(s.q.QueryRowContext(ctx, query, id, string(typ)))
}

// GetLiveForUser retrieves a non-expired credential by ID, type, and owner
func (s *CredentialStore) GetLiveForUser(ctx context.Context, id int64, typ domain.CredentialType, userID string) (*domain.Credential, error) {
	query := `
		SELECT id, user_id, type, secret, expires_at, created_at
		FROM credentials
		WHERE id = $1 AND type = $2 AND user_id = $3
		  AND (expires_at IS NULL OR expires_at > now())
	`
	return s.scanOne(s.q.QueryRowContext(ctx, query, id, string(typ), userID))
}

// GetLivePassword retrieves the single live password credential for a user
func (s *CredentialStore) GetLivePassword(ctx context.Context, userID string) (*domain.Credential, error) {
	query := `
		SELECT id, user_id, type, secret, expires_at, created_at
		FROM credentials
		WHERE user_id = $1 AND type = $2
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.q.QueryRowContext(ctx, query, userID, string(domain.CredentialTypePassword)))
}

// ListLive retrieves all non-expired credentials of a type for a user
func (s *CredentialStore) ListLive(ctx context.Context, userID string, typ domain.CredentialType) ([]*domain.Credential, error) {
	query := `
		SELECT id, user_id, type, secret, expires_at, created_at
		FROM credentials
		WHERE user_id = $1 AND type = $2
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
	`

	rows, err := s.q.QueryContext(ctx, query, userID, string(typ))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []*domain.Credential
	for rows.Next() {
		var cred domain.Credential
		var expiresAt sql.NullTime

		err := rows.Scan(
			&cred.ID,
			&cred.UserID,
			&cred.Type,
			&cred.Secret,
			&expiresAt,
			&cred.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		cred.ExpiresAt = TimePtr(expiresAt)
		creds = append(creds, &cred)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return creds, nil
}

// DeleteByUserAndType hard-deletes all credentials of a type for a user.
// Deleting zero rows is not an error.
func (s *CredentialStore) DeleteByUserAndType(ctx context.Context, userID string, typ domain.CredentialType) error {
	query := `DELETE FROM credentials WHERE user_id = $1 AND type = $2`
	_, err := s.q.ExecContext(ctx, query, userID, string(typ))
	return err
}

// InTx runs fn against a transaction-scoped view of the store.
// Calling InTx on an already transaction-scoped store reuses the open
// transaction.
func (s *CredentialStore) InTx(ctx context.Context, fn func(ctx context.Context, store driven.CredentialStore) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &CredentialStore{q: tx})
	})
}

// scanOne scans a single credential row, mapping sql.ErrNoRows to
// domain.ErrNotFound
func (s *CredentialStore) scanOne(row *sql.Row) (*domain.Credential, error) {
	var cred domain.Credential
	var expiresAt sql.NullTime

	err := row.Scan(
		&cred.ID,
		&cred.UserID,
		&cred.Type,
		&cred.Secret,
		&expiresAt,
		&cred.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	cred.ExpiresAt = TimePtr(expiresAt)
	return &cred, nil
}
