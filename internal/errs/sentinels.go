// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadSerial indicates a pass serial that does not decode into a
	// (session, garage) pair.
	ErrBadSerial = errors.New("bad serial")

	// ErrAlreadyLinked indicates a wallet linkage id was already recorded by
	// a concurrent request (conditional write affected no rows).
	ErrAlreadyLinked = errors.New("already linked")

	// ErrPlatformUnavailable indicates a transient wallet platform failure.
	ErrPlatformUnavailable = errors.New("platform unavailable")

	// ErrUnsupported indicates an operation the platform's update model does
	// not provide (e.g. content pull on the direct-patch platform).
	ErrUnsupported = errors.New("unsupported")
)
