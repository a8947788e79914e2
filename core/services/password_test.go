package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/credential-core/core/domain"
	"github.com/custodia-labs/credential-core/core/ports/driven/mocks"
)

func TestSetPassword(t *testing.T) {
	store, svc := newTestCredentialService()
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "u1", "first-password", nil))

	assert.Equal(t, 1, store.Count("u1", domain.CredentialTypePassword))
	assert.NoError(t, svc.ValidatePassword(ctx, "u1", "first-password"))

	// Stored secret is the hash, never the plaintext
	cred, err := store.GetLivePassword(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, "first-password", cred.Secret)
	assert.True(t, strings.HasPrefix(cred.Secret, "hashed:10:"), "password must hash at its configured cost")
}

func TestSetPassword_ReplacesPrior(t *testing.T) {
	store, svc := newTestCredentialService()
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "u1", "old-password", nil))
	require.NoError(t, svc.SetPassword(ctx, "u1", "new-password", nil))

	assert.Equal(t, 1, store.Count("u1", domain.CredentialTypePassword))
	assert.NoError(t, svc.ValidatePassword(ctx, "u1", "new-password"))
	assert.ErrorIs(t, svc.ValidatePassword(ctx, "u1", "old-password"), domain.ErrUnauthorized)
}

func TestSetPassword_InvalidInput(t *testing.T) {
	store, svc := newTestCredentialService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetPassword(ctx, "", "secret", nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetPassword(ctx, "u1", "", nil), domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Count("u1", domain.CredentialTypePassword))
}

func TestSetPassword_HashFailureWritesNothing(t *testing.T) {
	store := mocks.NewMockCredentialStore()
	hasher := mocks.NewMockSecretHasher()
	hasher.HashErr = errors.New("hash backend down")
	svc := NewCredentialService(store, hasher, mocks.NewMockRandomSource(), nil)

	err := svc.SetPassword(context.Background(), "u1", "secret", nil)
	require.Error(t, err)
	assert.Equal(t, 0, store.Count("u1", domain.CredentialTypePassword))
}

func TestSetPassword_Concurrent(t *testing.T) {
	store, svc := newTestCredentialService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.SetPassword(ctx, "u1", "racing-password", nil)
		}()
	}
	wg.Wait()

	// Exactly one password row survives, never zero and never two
	assert.Equal(t, 1, store.Count("u1", domain.CredentialTypePassword))
	assert.NoError(t, svc.ValidatePassword(ctx, "u1", "racing-password"))
}

func TestSetPassword_WithExpiry(t *testing.T) {
	_, svc := newTestCredentialService()
	ctx := context.Background()

	past := time.Now().Add(-1 * time.Second)
	require.NoError(t, svc.SetPassword(ctx, "u1", "temporary", &past))

	// Expired passwords are filtered at validation time
	assert.ErrorIs(t, svc.ValidatePassword(ctx, "u1", "temporary"), domain.ErrUnauthorized)
}

func TestValidatePassword(t *testing.T) {
	_, svc := newTestCredentialService()
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "u1", "correct-password", nil))

	tests := []struct {
		name     string
		userID   string
		password string
		wantErr  error
	}{
		{"correct password", "u1", "correct-password", nil},
		{"wrong password", "u1", "wrong-password", domain.ErrUnauthorized},
		{"unknown user", "u2", "correct-password", domain.ErrUnauthorized},
		{"empty password", "u1", "", domain.ErrUnauthorized},
		{"empty user", "", "correct-password", domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePassword(ctx, tt.userID, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	_, svc := newTestCredentialService()
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "u1", "correct-password", nil))

	ok, err := svc.CheckPassword(ctx, "u1", "correct-password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPassword(ctx, "u1", "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CheckPassword(ctx, "nobody", "correct-password")
	require.NoError(t, err)
	assert.False(t, ok)
}
