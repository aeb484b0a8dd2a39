package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached. Keys are derived
// from the definition content, so entries never go stale; the TTL only
// bounds storage growth.
const TTLArtifact = 7 * 24 * time.Hour

// Cache stores opaque byte payloads under string keys.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); an error means the backend itself failed.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for pipeline outputs.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the definition
	// with the given content hash.
	ArtifactKey(definitionHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change the artifact bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Container string `json:"container,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the definition hash together with the render options.
func (DefaultKeyer) ArtifactKey(definitionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", definitionHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
