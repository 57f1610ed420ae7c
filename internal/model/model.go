// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// TagClaim is the tuple encoded on a physical NFC tag plus its HMAC signature.
// It lives only for the duration of one scan request and is never persisted.
type TagClaim struct {
	Garage    string // garage identifier, e.g. "G1"
	Floor     string // floor label as printed on the tag
	Stair     string // optional stair/elevator label
	TagID     string // unique id of the physical tag
	Signature string // hex-encoded HMAC-SHA256 over garage|floor|stair|tagID
}

// User is the per-(session, garage) record that tracks wallet linkage.
// Visitors are anonymous; the session ID lives in a long-lived cookie.
type User struct {
	SessionID uuid.UUID // opaque random visitor id (cookie "uid")
	Garage    string

	// Google Wallet linkage. Empty object ID means "not yet linked".
	GoogleObjectID string

	// Apple Wallet linkage. The authentication token is embedded into every
	// rebuild of the pass and presented back by Wallet on web-service calls,
	// so it is stored verbatim rather than hashed.
	AppleSerial      string
	ApplePassCreated bool
	AppleAuthToken   string

	CreatedAt time.Time
}

// Spot is the most recent parking location for a (session, garage) pair.
// Last-write-wins by UpdatedAt; no history is kept.
type Spot struct {
	SessionID uuid.UUID
	Garage    string
	Floor     string
	Stair     string // empty when the tag carried no stair label
	UpdatedAt time.Time
}

// DeviceRegistration is one push-capable device subscribed to updates of one
// Apple pass. Several devices may register for the same serial.
type DeviceRegistration struct {
	DeviceLibraryID string
	Serial          string
	PushToken       string
	CreatedAt       time.Time
}
