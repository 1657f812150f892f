// Package cache provides caching for parsed explanations and rendered
// plot artifacts.
//
// Rendering is deterministic: the same explanation bytes and the same plot
// options always produce the same artifact. That makes content-addressed
// caching safe - keys hash the inputs, so a stale entry can only ever be a
// byte-identical re-render. Three backends are provided:
//
//   - [FileCache]: entries as files under a directory, for the CLI
//   - [RedisCache]: shared TTL cache for the HTTP API
//   - [NullCache]: disables caching, for tests and --refresh
package cache

import (
	"context"
	"time"
)

// Cache TTLs per entry type. Parsed explanations are cheap to rebuild and
// expire faster than rendered artifacts.
const (
	TTLExplanation = 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional TTLs.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an error is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey builds the cache key for a rendered plot artifact from the
// explanation's content hash and the rendering inputs.
func ArtifactKey(contentHash, plot, format string, opts ...any) string {
	parts := append([]any{contentHash, plot, format}, opts...)
	return hashKey("artifact", parts...)
}

// ExplanationKey builds the cache key for a parsed explanation from the
// input format, the raw input's content hash, and any parse options that
// change the resulting explanation.
func ExplanationKey(format, contentHash string, opts ...any) string {
	parts := append([]any{format, contentHash}, opts...)
	return hashKey("explanation", parts...)
}
