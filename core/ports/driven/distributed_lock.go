package driven

import (
	"context"
	"time"
)

// DistributedLock provides named locks across store instances. The redis
// credential store uses it to serialize multi-command write units.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance
	Release(ctx context.Context, name string) error
}
