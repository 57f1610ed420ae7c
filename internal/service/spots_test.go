package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/park-keeper/internal/errs"
)

func TestSpotService_Record_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewSpotService(newFakeUserRepo(), newFakeSpotRepo())

	sid := uuid.Must(uuid.NewV4())
	if _, _, err := s.Record(ctx, uuid.Nil, "G1", "4", "A"); err == nil {
		t.Fatalf("want validation error on empty sessionID")
	}
	if _, _, err := s.Record(ctx, sid, "", "4", "A"); err == nil {
		t.Fatalf("want validation error on empty garage")
	}
	if _, _, err := s.Record(ctx, sid, "G1", "", "A"); err == nil {
		t.Fatalf("want validation error on empty floor")
	}
}

func TestSpotService_Record_UpsertsUserAndSpot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users, spots := newFakeUserRepo(), newFakeSpotRepo()
	s := NewSpotService(users, spots)

	sid := uuid.Must(uuid.NewV4())
	user, spot, err := s.Record(ctx, sid, "G1", "4", "A")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if user.SessionID != sid || user.Garage != "G1" {
		t.Fatalf("user: %+v", user)
	}
	if spot.Floor != "4" || spot.Stair != "A" || spot.UpdatedAt.IsZero() {
		t.Fatalf("spot: %+v", spot)
	}

	got, err := s.Current(ctx, sid, "G1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.Floor != "4" || got.Stair != "A" {
		t.Fatalf("stored spot: %+v", got)
	}
}

func TestSpotService_Record_ReplayIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewSpotService(newFakeUserRepo(), newFakeSpotRepo())

	sid := uuid.Must(uuid.NewV4())
	_, first, err := s.Record(ctx, sid, "G1", "4", "A")
	if err != nil {
		t.Fatalf("Record(1): %v", err)
	}
	_, second, err := s.Record(ctx, sid, "G1", "4", "A")
	if err != nil {
		t.Fatalf("Record(2): %v", err)
	}
	if second.Floor != first.Floor || second.Stair != first.Stair {
		t.Fatalf("replay changed content: %+v vs %+v", first, second)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("timestamp went backwards")
	}
}

func TestSpotService_Record_LastWriteWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users, spots := newFakeUserRepo(), newFakeSpotRepo()
	s := NewSpotService(users, spots)

	sid := uuid.Must(uuid.NewV4())
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	// newer claim applied first, older claim arrives late
	s.now = func() time.Time { return t2 }
	if _, _, err := s.Record(ctx, sid, "G1", "2", ""); err != nil {
		t.Fatalf("Record(t2): %v", err)
	}
	s.now = func() time.Time { return t1 }
	if _, _, err := s.Record(ctx, sid, "G1", "7", "B"); err != nil {
		t.Fatalf("Record(t1): %v", err)
	}

	got, err := s.Current(ctx, sid, "G1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.Floor != "2" || got.Stair != "" {
		t.Fatalf("stale write overwrote newer spot: %+v", got)
	}
}

func TestSpotService_Record_StoreErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sid := uuid.Must(uuid.NewV4())

	users := newFakeUserRepo()
	users.upsertErr = errors.New("db down")
	if _, _, err := s0(users, newFakeSpotRepo()).Record(ctx, sid, "G1", "4", ""); err == nil {
		t.Fatalf("want user upsert error")
	}

	spots := newFakeSpotRepo()
	spots.updateErr = errors.New("db down")
	if _, _, err := s0(newFakeUserRepo(), spots).Record(ctx, sid, "G1", "4", ""); err == nil {
		t.Fatalf("want spot update error")
	}
}

func TestSpotService_Current_NotFound(t *testing.T) {
	t.Parallel()
	s := NewSpotService(newFakeUserRepo(), newFakeSpotRepo())
	_, err := s.Current(context.Background(), uuid.Must(uuid.NewV4()), "G1")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func s0(u *fakeUserRepo, sp *fakeSpotRepo) *SpotServiceImpl { return NewSpotService(u, sp) }
