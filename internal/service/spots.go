package service

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/park-keeper/internal/model"
	"github.com/and161185/park-keeper/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// SpotService records and serves the current parking location.
type SpotService interface {
	// Record upserts the visitor and overwrites the spot (last-write-wins).
	// The spot is durable before any wallet platform is contacted, so a
	// wallet outage never loses the saved location.
	Record(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string) (*model.User, *model.Spot, error)
	// Current returns the latest recorded spot, errs.ErrNotFound if none.
	Current(ctx context.Context, sessionID uuid.UUID, garage string) (*model.Spot, error)
}

type SpotServiceImpl struct {
	users repository.UserRepository
	spots repository.SpotRepository
	now   func() time.Time
}

// NewSpotService constructs SpotService with required repositories.
func NewSpotService(users repository.UserRepository, spots repository.SpotRepository) *SpotServiceImpl {
	return &SpotServiceImpl{users: users, spots: spots, now: time.Now}
}

// Record validates input, ensures the user row and writes the spot.
func (s *SpotServiceImpl) Record(ctx context.Context, sessionID uuid.UUID, garage, floor, stair string) (*model.User, *model.Spot, error) {
	if sessionID == uuid.Nil {
		return nil, nil, errors.New("validation: empty sessionID")
	}
	if garage == "" || floor == "" {
		return nil, nil, errors.New("validation: empty garage/floor")
	}

	user, err := s.users.Upsert(ctx, sessionID, garage)
	if err != nil {
		return nil, nil, err
	}

	ts := s.now().UTC().Truncate(time.Millisecond)
	if err := s.spots.Update(ctx, sessionID, garage, floor, stair, ts); err != nil {
		return nil, nil, err
	}
	spot := &model.Spot{SessionID: sessionID, Garage: garage, Floor: floor, Stair: stair, UpdatedAt: ts}
	return user, spot, nil
}

// Current fetches the latest spot by key.
func (s *SpotServiceImpl) Current(ctx context.Context, sessionID uuid.UUID, garage string) (*model.Spot, error) {
	if sessionID == uuid.Nil || garage == "" {
		return nil, errors.New("validation: empty sessionID/garage")
	}
	return s.spots.Get(ctx, sessionID, garage)
}
