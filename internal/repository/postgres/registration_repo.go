package postgres

import (
	"context"

	"github.com/and161185/park-keeper/internal/model"
)

// RegistrationRepo implements RegistrationRepository using PostgreSQL.
type RegistrationRepo struct{ db *DB }

// NewRegistrationRepo constructs a device registration repository.
func NewRegistrationRepo(db *DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Upsert records a device registration; re-registering refreshes the token.
func (r *RegistrationRepo) Upsert(ctx context.Context, reg model.DeviceRegistration) error {
	const q = `
INSERT INTO device_registrations (device_library_id, serial, push_token)
VALUES ($1, $2, $3)
ON CONFLICT (device_library_id, serial) DO UPDATE SET push_token = excluded.push_token`
	_, err := r.db.Pool.Exec(ctx, q, reg.DeviceLibraryID, reg.Serial, reg.PushToken)
	return err
}

// Delete removes a registration; removing a missing row is a no-op.
func (r *RegistrationRepo) Delete(ctx context.Context, deviceLibraryID, serial string) error {
	const q = `DELETE FROM device_registrations WHERE device_library_id=$1 AND serial=$2`
	_, err := r.db.Pool.Exec(ctx, q, deviceLibraryID, serial)
	return err
}

// ListBySerial returns all registrations subscribed to one pass serial.
func (r *RegistrationRepo) ListBySerial(ctx context.Context, serial string) ([]model.DeviceRegistration, error) {
	const q = `
SELECT device_library_id, serial, push_token, created_at
FROM device_registrations WHERE serial=$1
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DeviceRegistration
	for rows.Next() {
		var reg model.DeviceRegistration
		if err := rows.Scan(&reg.DeviceLibraryID, &reg.Serial, &reg.PushToken, &reg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
