package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/and161185/park-keeper/internal/repository"
	"github.com/and161185/park-keeper/internal/wallet"
)

/************ in-memory repositories ************/

type fakeUserRepo struct {
	users map[string]*model.User

	getErr    error
	upsertErr error
	linkErr   error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func userKey(sid uuid.UUID, garage string) string { return sid.String() + "|" + garage }

func (f *fakeUserRepo) Get(_ context.Context, sid uuid.UUID, garage string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[userKey(sid, garage)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Upsert(_ context.Context, sid uuid.UUID, garage string) (*model.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	k := userKey(sid, garage)
	if _, ok := f.users[k]; !ok {
		f.users[k] = &model.User{SessionID: sid, Garage: garage, CreatedAt: time.Now()}
	}
	cp := *f.users[k]
	return &cp, nil
}

func (f *fakeUserRepo) LinkGoogle(_ context.Context, sid uuid.UUID, garage, objectID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	u, ok := f.users[userKey(sid, garage)]
	if !ok || u.GoogleObjectID != "" {
		return errs.ErrAlreadyLinked
	}
	u.GoogleObjectID = objectID
	return nil
}

func (f *fakeUserRepo) LinkApple(_ context.Context, sid uuid.UUID, garage, serial, authToken string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	u, ok := f.users[userKey(sid, garage)]
	if !ok || u.AppleSerial != "" {
		return errs.ErrAlreadyLinked
	}
	u.AppleSerial = serial
	u.ApplePassCreated = true
	u.AppleAuthToken = authToken
	return nil
}

type fakeSpotRepo struct {
	spots map[string]*model.Spot

	updateErr error
	getErr    error
}

var _ repository.SpotRepository = (*fakeSpotRepo)(nil)

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{spots: map[string]*model.Spot{}}
}

func (f *fakeSpotRepo) Update(_ context.Context, sid uuid.UUID, garage, floor, stair string, ts time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	k := userKey(sid, garage)
	if cur, ok := f.spots[k]; ok && ts.Before(cur.UpdatedAt) {
		return nil // stale write dropped, last-write-wins
	}
	f.spots[k] = &model.Spot{SessionID: sid, Garage: garage, Floor: floor, Stair: stair, UpdatedAt: ts}
	return nil
}

func (f *fakeSpotRepo) Get(_ context.Context, sid uuid.UUID, garage string) (*model.Spot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.spots[userKey(sid, garage)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeRegRepo struct {
	regs map[string]model.DeviceRegistration

	upsertErr error
}

var _ repository.RegistrationRepository = (*fakeRegRepo)(nil)

func newFakeRegRepo() *fakeRegRepo {
	return &fakeRegRepo{regs: map[string]model.DeviceRegistration{}}
}

func regKey(dlid, serial string) string { return dlid + "|" + serial }

func (f *fakeRegRepo) Upsert(_ context.Context, reg model.DeviceRegistration) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	reg.CreatedAt = time.Now()
	f.regs[regKey(reg.DeviceLibraryID, reg.Serial)] = reg
	return nil
}

func (f *fakeRegRepo) Delete(_ context.Context, dlid, serial string) error {
	delete(f.regs, regKey(dlid, serial))
	return nil
}

func (f *fakeRegRepo) ListBySerial(_ context.Context, serial string) ([]model.DeviceRegistration, error) {
	var out []model.DeviceRegistration
	for _, r := range f.regs {
		if r.Serial == serial {
			out = append(out, r)
		}
	}
	return out, nil
}

/************ recording platform adapter ************/

type fakePlatform struct {
	created   Createds
	patches   []patchCall
	fetches   []wallet.PassInfo
	createErr error
	patchErr  error
	fetchErr  error

	objectIDPrefix string
	saveURL        string
	passBytes      []byte
}

type Createds []wallet.PassInfo

type patchCall struct {
	objectID string
	info     wallet.PassInfo
}

var _ wallet.Platform = (*fakePlatform)(nil)

func (f *fakePlatform) Create(_ context.Context, info wallet.PassInfo) (wallet.Created, error) {
	f.created = append(f.created, info)
	if f.createErr != nil {
		return wallet.Created{}, f.createErr
	}
	return wallet.Created{
		ObjectID:  f.objectIDPrefix + info.Serial,
		SaveURL:   f.saveURL,
		Pass:      f.passBytes,
		MediaType: wallet.ApplePassMediaType,
	}, nil
}

func (f *fakePlatform) Patch(_ context.Context, objectID string, info wallet.PassInfo) error {
	f.patches = append(f.patches, patchCall{objectID: objectID, info: info})
	return f.patchErr
}

func (f *fakePlatform) Fetch(_ context.Context, info wallet.PassInfo) ([]byte, string, error) {
	f.fetches = append(f.fetches, info)
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	return f.passBytes, wallet.ApplePassMediaType, nil
}
