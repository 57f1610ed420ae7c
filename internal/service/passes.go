package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/park-keeper/internal/crypto"
	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/and161185/park-keeper/internal/repository"
	"github.com/and161185/park-keeper/internal/wallet"
)

// ScanSync tells the scan page which wallet affordances to render.
type ScanSync struct {
	NeedsApple    bool
	NeedsGoogle   bool
	GoogleSaveURL string
}

// PassService reconciles the recorded spot with wallet state on both
// platforms. Creation stays user-initiated; only the direct-patch platform
// gets content pushed on every scan.
type PassService interface {
	// SyncOnScan applies the per-claim decision rule for the scanning
	// device's platform. Patch failures are logged, not returned: the next
	// scan retries implicitly.
	SyncOnScan(ctx context.Context, user *model.User, spot *model.Spot, platform model.Platform) (ScanSync, error)

	// CreateApplePass builds a pass for the stored spot (the supplied
	// floor/stair are a fallback when none is stored yet) and records the
	// linkage. Returns the pass binary and its serial.
	CreateApplePass(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string) ([]byte, string, error)

	// CurrentApplePass rebuilds the pass for a serial from the latest
	// recorded spot. A visitor with no spot gets an explicit
	// location-unknown pass, never fabricated values.
	CurrentApplePass(ctx context.Context, serial string) ([]byte, string, error)
}

type PassServiceImpl struct {
	users  repository.UserRepository
	spots  repository.SpotRepository
	apple  wallet.Platform
	google wallet.Platform
	log    *zap.Logger
}

// NewPassService constructs PassService with both platform adapters.
func NewPassService(users repository.UserRepository, spots repository.SpotRepository,
	apple, google wallet.Platform, log *zap.Logger) *PassServiceImpl {
	return &PassServiceImpl{users: users, spots: spots, apple: apple, google: google, log: log}
}

// SyncOnScan runs the per-platform decision rule for one verified claim.
func (s *PassServiceImpl) SyncOnScan(ctx context.Context, user *model.User, spot *model.Spot, platform model.Platform) (ScanSync, error) {
	if user == nil || spot == nil {
		return ScanSync{}, errors.New("validation: nil user/spot")
	}

	if platform == model.PlatformApple {
		// Pull model: an issued pass fetches fresh content itself, an
		// unissued one needs the user to act.
		return ScanSync{NeedsApple: !user.ApplePassCreated}, nil
	}

	info := wallet.PassInfo{
		Serial:  model.Serial(user.SessionID, user.Garage),
		Garage:  user.Garage,
		Floor:   spot.Floor,
		Stair:   spot.Stair,
		Located: true,
	}

	if user.GoogleObjectID != "" {
		s.patchGoogle(ctx, user.GoogleObjectID, info)
		return ScanSync{}, nil
	}

	created, err := s.google.Create(ctx, info)
	if err != nil {
		return ScanSync{}, fmt.Errorf("google create: %w", err)
	}
	switch err := s.users.LinkGoogle(ctx, user.SessionID, user.Garage, created.ObjectID); {
	case err == nil:
		return ScanSync{NeedsGoogle: true, GoogleSaveURL: created.SaveURL}, nil
	case errors.Is(err, errs.ErrAlreadyLinked):
		// A concurrent scan linked first. Object IDs are deterministic, so
		// the recorded id is ours; just push the fresh content.
		s.patchGoogle(ctx, created.ObjectID, info)
		return ScanSync{}, nil
	default:
		return ScanSync{}, err
	}
}

func (s *PassServiceImpl) patchGoogle(ctx context.Context, objectID string, info wallet.PassInfo) {
	if err := s.google.Patch(ctx, objectID, info); err != nil {
		// Eventual consistency: the next verified claim retries implicitly.
		s.log.Warn("google pass patch failed",
			zap.String("object_id", objectID),
			zap.Error(err),
		)
	}
}

// CreateApplePass issues (or re-issues) the Apple pass for a (session, garage).
func (s *PassServiceImpl) CreateApplePass(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string) ([]byte, string, error) {
	if sessionID == uuid.Nil || garage == "" {
		return nil, "", errors.New("validation: empty sessionID/garage")
	}

	user, err := s.users.Upsert(ctx, sessionID, garage)
	if err != nil {
		return nil, "", err
	}

	located := floor != ""
	switch spot, err := s.spots.Get(ctx, sessionID, garage); {
	case err == nil:
		floor, stair, located = spot.Floor, spot.Stair, true
	case errors.Is(err, errs.ErrNotFound):
		// fall back to the submitted form values
	default:
		return nil, "", err
	}

	serial := model.Serial(sessionID, garage)
	token := user.AppleAuthToken
	if token == "" {
		if token, err = pkgcrypto.RandToken(24); err != nil {
			return nil, "", err
		}
	}

	if user.AppleSerial == "" {
		switch err := s.users.LinkApple(ctx, sessionID, garage, serial, token); {
		case err == nil:
		case errors.Is(err, errs.ErrAlreadyLinked):
			// A concurrent create recorded its token first; reuse it so the
			// returned pass authenticates against the web service.
			user, err = s.users.Get(ctx, sessionID, garage)
			if err != nil {
				return nil, "", err
			}
			token = user.AppleAuthToken
		default:
			return nil, "", err
		}
	}

	created, err := s.apple.Create(ctx, wallet.PassInfo{
		Serial: serial, Garage: garage,
		Floor: floor, Stair: stair,
		Located: located, AuthToken: token,
	})
	if err != nil {
		return nil, "", err
	}
	return created.Pass, serial, nil
}

// CurrentApplePass serves the pull path: always the latest spot, never a
// cached pass.
func (s *PassServiceImpl) CurrentApplePass(ctx context.Context, serial string) ([]byte, string, error) {
	ps, err := model.ParseSerial(serial)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errs.ErrBadSerial, err)
	}
	user, err := s.users.Get(ctx, ps.SessionID, ps.Garage)
	if err != nil {
		return nil, "", err
	}

	info := wallet.PassInfo{
		Serial: serial, Garage: ps.Garage, AuthToken: user.AppleAuthToken,
	}
	switch spot, err := s.spots.Get(ctx, ps.SessionID, ps.Garage); {
	case err == nil:
		info.Floor, info.Stair, info.Located = spot.Floor, spot.Stair, true
	case errors.Is(err, errs.ErrNotFound):
		// never parked here: serve the explicit unknown state
	default:
		return nil, "", err
	}
	return s.apple.Fetch(ctx, info)
}
