package domain

import (
	"testing"
	"time"
)

func TestCredentialTypeConstants(t *testing.T) {
	if CredentialTypePassword != "password" {
		t.Errorf("expected CredentialTypePassword = 'password', got %s", CredentialTypePassword)
	}
	if CredentialTypeThirdParty != "third_party" {
		t.Errorf("expected CredentialTypeThirdParty = 'third_party', got %s", CredentialTypeThirdParty)
	}
	if CredentialTypeSessionToken != "session_token" {
		t.Errorf("expected CredentialTypeSessionToken = 'session_token', got %s", CredentialTypeSessionToken)
	}
	if CredentialTypePrivilegedToken != "privileged_token" {
		t.Errorf("expected CredentialTypePrivilegedToken = 'privileged_token', got %s", CredentialTypePrivilegedToken)
	}
}

func TestCredentialTypeValid(t *testing.T) {
	for _, typ := range CredentialTypes {
		if !typ.Valid() {
			t.Errorf("expected %s to be valid", typ)
		}
	}

	if CredentialType("api_key").Valid() {
		t.Error("expected unknown type to be invalid")
	}
	if CredentialType("").Valid() {
		t.Error("expected empty type to be invalid")
	}
}

func TestCredentialToSummary(t *testing.T) {
	now := time.Now()
	expiry := now.Add(1 * time.Hour)

	cred := &Credential{
		ID:        42,
		UserID:    "user-123",
		Type:      CredentialTypeSessionToken,
		Secret:    "$2a$10$notarealhash",
		ExpiresAt: &expiry,
		CreatedAt: now,
	}

	summary := cred.ToSummary()

	if summary.ID != 42 {
		t.Errorf("expected ID 42, got %d", summary.ID)
	}
	if summary.UserID != "user-123" {
		t.Errorf("expected UserID user-123, got %s", summary.UserID)
	}
	if summary.Type != CredentialTypeSessionToken {
		t.Errorf("expected Type session_token, got %s", summary.Type)
	}
	if summary.ExpiresAt == nil || !summary.ExpiresAt.Equal(expiry) {
		t.Error("expected ExpiresAt to carry over")
	}
}

func TestCredentialIsExpired(t *testing.T) {
	past := time.Now().Add(-1 * time.Second)
	future := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"nil expiry never expires", nil, false},
		{"past expiry", &past, true},
		{"future expiry", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := &Credential{ExpiresAt: tt.expiresAt}
			if got := cred.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
