package driven

// SecretHasher handles the one-way transform of credential verifiers.
// This does NOT handle storage - use CredentialStore for persistence.
type SecretHasher interface {
	// Hash produces the one-way digest of plaintext at the given work
	// factor. It fails only on internal error, never on the input value.
	Hash(plaintext string, cost int) (string, error)

	// Compare verifies plaintext against a stored digest in constant
	// time. Mismatched or garbage input returns false, never an error.
	Compare(plaintext, digest string) bool
}
