package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/and161185/park-keeper/internal/repository"
)

// PassAuth is the outcome of checking a pass authentication token.
type PassAuth int

const (
	// AuthOK means the serial is known and the token matches.
	AuthOK PassAuth = iota
	// AuthDenied means the serial is known but the token does not match.
	AuthDenied
	// AuthUnknown means the serial does not resolve to an issued pass.
	// Callback handlers treat this as a tolerated no-op, since the platform
	// retries aggressively on error statuses.
	AuthUnknown
)

// RegistrationService implements the push-registration platform's device
// subscription protocol.
type RegistrationService interface {
	// Register upserts a device subscription. An undecodable serial is
	// tolerated as a no-op.
	Register(ctx context.Context, deviceLibraryID, serial, pushToken string) error
	// Unregister removes a subscription; removing a missing or undecodable
	// one still succeeds.
	Unregister(ctx context.Context, deviceLibraryID, serial string) error
	// Serials lists pass serials updated since the device last asked.
	// Incremental-update tracking is out of scope, so this is always empty.
	Serials(ctx context.Context, deviceLibraryID string) ([]string, error)
	// Registrations lists the devices subscribed to one pass.
	Registrations(ctx context.Context, serial string) ([]model.DeviceRegistration, error)
	// Authorize checks the ApplePass authentication token for a serial.
	Authorize(ctx context.Context, serial, token string) PassAuth
}

type RegistrationServiceImpl struct {
	regs  repository.RegistrationRepository
	users repository.UserRepository
}

// NewRegistrationService constructs RegistrationService.
func NewRegistrationService(regs repository.RegistrationRepository, users repository.UserRepository) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{regs: regs, users: users}
}

// Register stores the subscription keyed (device, serial).
func (s *RegistrationServiceImpl) Register(ctx context.Context, deviceLibraryID, serial, pushToken string) error {
	if deviceLibraryID == "" {
		return errors.New("validation: empty deviceLibraryID")
	}
	if _, err := model.ParseSerial(serial); err != nil {
		return nil
	}
	return s.regs.Upsert(ctx, model.DeviceRegistration{
		DeviceLibraryID: deviceLibraryID,
		Serial:          serial,
		PushToken:       pushToken,
	})
}

// Unregister drops the subscription.
func (s *RegistrationServiceImpl) Unregister(ctx context.Context, deviceLibraryID, serial string) error {
	if deviceLibraryID == "" {
		return errors.New("validation: empty deviceLibraryID")
	}
	if _, err := model.ParseSerial(serial); err != nil {
		return nil
	}
	return s.regs.Delete(ctx, deviceLibraryID, serial)
}

// Serials always reports nothing pending; Wallet then pulls passes directly.
func (s *RegistrationServiceImpl) Serials(context.Context, string) ([]string, error) {
	return []string{}, nil
}

// Registrations lists subscribers of one pass serial.
func (s *RegistrationServiceImpl) Registrations(ctx context.Context, serial string) ([]model.DeviceRegistration, error) {
	if _, err := model.ParseSerial(serial); err != nil {
		return nil, errs.ErrBadSerial
	}
	return s.regs.ListBySerial(ctx, serial)
}

// Authorize verifies the per-pass authentication token in constant time.
func (s *RegistrationServiceImpl) Authorize(ctx context.Context, serial, token string) PassAuth {
	ps, err := model.ParseSerial(serial)
	if err != nil {
		return AuthUnknown
	}
	user, err := s.users.Get(ctx, ps.SessionID, ps.Garage)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return AuthUnknown
		}
		return AuthDenied
	}
	if user.AppleAuthToken == "" {
		// No pass issued yet for this key.
		return AuthUnknown
	}
	if subtle.ConstantTimeCompare([]byte(user.AppleAuthToken), []byte(token)) == 1 {
		return AuthOK
	}
	return AuthDenied
}
