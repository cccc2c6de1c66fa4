// Package blob models the attachment store collaborator: binary payloads
// go in, an opaque key comes back, and a key can later be resolved to a
// time-limited retrieval URL.
package blob

import (
	"context"
	"io"
	"time"
)

// Store accepts receipt payloads and resolves stored keys to expiring URLs.
type Store interface {
	// Put stores the payload and returns an opaque reference key.
	// filename is advisory (used for the key suffix and content sniffing).
	Put(ctx context.Context, filename string, contentType string, r io.Reader) (key string, err error)

	// SignedURL resolves a key to a retrieval URL valid for ttl.
	SignedURL(key string, ttl time.Duration) (string, error)

	// Open returns the payload for a key, for serving signed downloads.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}
