package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// SpotRepo implements SpotRepository using PostgreSQL.
type SpotRepo struct{ db *DB }

// NewSpotRepo constructs a spot repository.
func NewSpotRepo(db *DB) *SpotRepo { return &SpotRepo{db: db} }

// Update upserts the current spot. Last-write-wins by timestamp: the update
// arm only fires when the incoming timestamp is not older than the stored
// one, so delayed replays cannot regress the location.
func (r *SpotRepo) Update(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string, ts time.Time) error {
	const q = `
INSERT INTO spots (session_id, garage, floor, stair, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session_id, garage) DO UPDATE
SET floor = excluded.floor, stair = excluded.stair, updated_at = excluded.updated_at
WHERE excluded.updated_at >= spots.updated_at`
	_, err := r.db.Pool.Exec(ctx, q, sessionID, garage, floor, stair, ts)
	return err
}

// Get selects the current spot for (session, garage).
func (r *SpotRepo) Get(ctx context.Context, sessionID uuid.UUID, garage string) (*model.Spot, error) {
	const q = `
SELECT session_id, garage, floor, stair, updated_at
FROM spots WHERE session_id=$1 AND garage=$2`
	row := r.db.Pool.QueryRow(ctx, q, sessionID, garage)
	var s model.Spot
	if err := row.Scan(&s.SessionID, &s.Garage, &s.Floor, &s.Stair, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
