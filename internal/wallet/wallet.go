// Package wallet contains the platform adapters that issue and update passes
// on the two wallet backends. Both implement one capability interface; the
// update models differ and the difference is deliberate: Apple is pull-based
// (Patch is a no-op, content is rebuilt on Fetch), Google is push-based
// (Patch writes the live object, Fetch is unsupported).
package wallet

import "context"

// PassInfo is the content of one pass, derived from the latest recorded spot.
type PassInfo struct {
	Serial    string
	Garage    string
	Floor     string
	Stair     string
	Located   bool   // false renders an explicit "location unknown" pass
	AuthToken string // Apple web-service authentication token
}

// Created reports the outcome of issuing a pass.
type Created struct {
	ObjectID  string // platform identifier persisted as linkage
	SaveURL   string // Google: link the client opens to add the pass
	Pass      []byte // Apple: binary pass archive
	MediaType string
}

// Platform is the capability surface the pass synchronizer drives.
type Platform interface {
	// Create issues a new pass for the given content.
	Create(ctx context.Context, info PassInfo) (Created, error)
	// Patch pushes new content into an existing pass, or defers to the
	// platform's pull model when it has none.
	Patch(ctx context.Context, objectID string, info PassInfo) error
	// Fetch returns the current pass binary and its media type.
	Fetch(ctx context.Context, info PassInfo) ([]byte, string, error)
}
