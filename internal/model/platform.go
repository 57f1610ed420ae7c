package model

import "strings"

// Platform is the wallet platform a device belongs to. Routing is decided per
// request from the user agent, never stored per user: the same visitor on a
// different device type can link the other platform independently.
type Platform int

const (
	// PlatformApple is the push-registration platform: devices register for
	// updates and Wallet pulls fresh pass content from the server.
	PlatformApple Platform = iota
	// PlatformGoogle is the direct-patch platform: the server pushes field
	// updates straight into the live pass object.
	PlatformGoogle
)

// String names the platform for logs.
func (p Platform) String() string {
	if p == PlatformGoogle {
		return "google"
	}
	return "apple"
}

// PlatformForUserAgent classifies a device by its user-agent string.
func PlatformForUserAgent(ua string) Platform {
	if strings.Contains(strings.ToLower(ua), "android") {
		return PlatformGoogle
	}
	return PlatformApple
}
