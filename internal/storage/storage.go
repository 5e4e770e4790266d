// Package storage abstracts the object store that holds incident
// media. Objects are private; readers get short-lived signed URLs
// instead of direct bucket access.
package storage

import (
	"context"
	"io"
	"time"
)

// Uploader stores an incident attachment and returns the object path
// recorded on the incident row.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer mints a time-limited GET URL for a stored object.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
