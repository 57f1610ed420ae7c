package postgres

import (
	"context"
	"errors"

	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `session_id, garage, google_object_id, apple_serial, apple_pass_created, apple_auth_token, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.SessionID, &u.Garage, &u.GoogleObjectID,
		&u.AppleSerial, &u.ApplePassCreated, &u.AppleAuthToken, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Get selects a user by (session, garage).
func (r *UserRepo) Get(ctx context.Context, sessionID uuid.UUID, garage string) (*model.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users WHERE session_id=$1 AND garage=$2`
	return scanUser(r.db.Pool.QueryRow(ctx, q, sessionID, garage))
}

// Upsert inserts the row if absent and returns the current record. Linkage
// fields of an existing row are left untouched.
func (r *UserRepo) Upsert(ctx context.Context, sessionID uuid.UUID, garage string) (*model.User, error) {
	const q = `
INSERT INTO users (session_id, garage)
VALUES ($1, $2)
ON CONFLICT (session_id, garage) DO NOTHING`
	if _, err := r.db.Pool.Exec(ctx, q, sessionID, garage); err != nil {
		return nil, err
	}
	return r.Get(ctx, sessionID, garage)
}

// LinkGoogle sets the Google object ID only when none is recorded yet.
// Check-and-set in a single statement so two concurrent creations cannot
// both claim the linkage.
func (r *UserRepo) LinkGoogle(ctx context.Context, sessionID uuid.UUID, garage, objectID string) error {
	const q = `
UPDATE users
SET google_object_id = $3
WHERE session_id = $1 AND garage = $2 AND google_object_id = ''`
	tag, err := r.db.Pool.Exec(ctx, q, sessionID, garage, objectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAlreadyLinked
	}
	return nil
}

// LinkApple sets the Apple serial and pass auth token only when no serial is
// recorded yet.
func (r *UserRepo) LinkApple(ctx context.Context, sessionID uuid.UUID, garage, serial, authToken string) error {
	const q = `
UPDATE users
SET apple_serial = $3, apple_pass_created = true, apple_auth_token = $4
WHERE session_id = $1 AND garage = $2 AND apple_serial = ''`
	tag, err := r.db.Pool.Exec(ctx, q, sessionID, garage, serial, authToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAlreadyLinked
	}
	return nil
}
