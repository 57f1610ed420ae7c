package repository

import (
	"context"

	"github.com/and161185/park-keeper/internal/model"
)

// RegistrationRepository stores device subscriptions to Apple pass updates,
// keyed (deviceLibraryID, serial).
type RegistrationRepository interface {
	// Upsert records a registration; repeated registrations refresh the
	// push token.
	Upsert(ctx context.Context, reg model.DeviceRegistration) error

	// Delete removes a registration. Deleting a non-existent registration
	// is not an error.
	Delete(ctx context.Context, deviceLibraryID, serial string) error

	// ListBySerial returns all device registrations for one pass.
	ListBySerial(ctx context.Context, serial string) ([]model.DeviceRegistration, error)
}
