package repository

import (
	"context"
	"time"

	"github.com/and161185/park-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// SpotRepository stores the single current parking location per
// (session, garage) pair, last-write-wins by timestamp.
type SpotRepository interface {
	// Update overwrites the spot unconditionally for newer timestamps;
	// writes carrying a timestamp older than the stored one are dropped.
	Update(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string, ts time.Time) error

	// Get loads the current spot, errs.ErrNotFound when the visitor has
	// never parked in this garage.
	Get(ctx context.Context, sessionID uuid.UUID, garage string) (*model.Spot, error)
}
