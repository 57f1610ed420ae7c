// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/park-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository tracks per-(session, garage) visitors and wallet linkage.
// All writes are durable before returning.
type UserRepository interface {
	// Get loads the record for a (session, garage) pair.
	Get(ctx context.Context, sessionID uuid.UUID, garage string) (*model.User, error)

	// Upsert creates the record if absent and returns it. Existing linkage
	// fields are never overwritten.
	Upsert(ctx context.Context, sessionID uuid.UUID, garage string) (*model.User, error)

	// LinkGoogle records the Google object ID only if none is set yet.
	// Returns errs.ErrAlreadyLinked when a concurrent request won the race.
	LinkGoogle(ctx context.Context, sessionID uuid.UUID, garage, objectID string) error

	// LinkApple records the Apple serial and its pass authentication token
	// only if no serial is set yet. Returns errs.ErrAlreadyLinked otherwise.
	LinkApple(ctx context.Context, sessionID uuid.UUID, garage, serial, authToken string) error
}
