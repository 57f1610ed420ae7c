// Package limiter defines interfaces and implementations for throttling
// invalid tag scans. Repeated mis-signed claims from one source are an online
// search for the tag HMAC secret; verified scans are never throttled.
package limiter

import (
	"context"
	"time"
)

// Limiter controls scan attempts and temporary lockouts per (garage, ip).
type Limiter interface {
	// Allow reports whether scanning is currently allowed and optional retry-after.
	Allow(ctx context.Context, garage string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a verified scan.
	Success(ctx context.Context, garage string, ipHash []byte) error
	// Failure records an invalid-signature scan; may place a temporary block.
	Failure(ctx context.Context, garage string, ipHash []byte) (bool, time.Duration, error)
}
