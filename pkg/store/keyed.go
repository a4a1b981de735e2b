package store

import (
	"context"
	"time"
)

// KeyedStore is the persistent keyed store shared by the pipeline
// controller and the context accumulator. Values are JSON-serializable
// records; entries expire after their TTL and are lazily purged, so a
// miss is the normal signal for an expired session.
type KeyedStore interface {
	// Get unmarshals the entry for key into dest. Returns false when the
	// key is absent or expired.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for at most ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}

// Key joins a fixed store prefix with a session id.
func Key(prefix, sessionId string) string {
	return prefix + ":" + sessionId
}
