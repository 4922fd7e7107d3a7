package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/repository"
	"github.com/dataroom-ai/dataroom-server/services"
)

type fakeRoomRepo struct {
	rooms     map[string]*models.Room
	members   map[string][]string // roomID -> accepted user ids
	saveCalls int
	deletes   []string
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:   make(map[string]*models.Room),
		members: make(map[string][]string),
	}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := f.rooms[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoomRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error) {
	var out []models.Room
	for _, r := range f.rooms {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) Save(ctx context.Context, room *models.Room) error {
	f.saveCalls++
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) HasAcceptedMember(ctx context.Context, roomID, userID string) (bool, error) {
	for _, id := range f.members[roomID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func seedRoom(repo *fakeRoomRepo) *models.Room {
	room := &models.Room{ID: "room-1", OwnerID: "owner-1", CompanyName: "Acme"}
	repo.rooms[room.ID] = room
	return room
}

func TestRoomCreate_RequiresCompanyName(t *testing.T) {
	svc := services.NewRoomService(newFakeRoomRepo())

	_, err := svc.Create(context.Background(), "owner-1", services.RoomInput{CompanyName: "   "})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestRoomCreate_SetsOwner(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := services.NewRoomService(repo)

	room, err := svc.Create(context.Background(), "owner-1", services.RoomInput{CompanyName: " Acme "})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", room.OwnerID)
	assert.Equal(t, "Acme", room.CompanyName)
	assert.NotEmpty(t, room.ID)
}

func TestRoomGet_OwnerFlag(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	repo.members["room-1"] = []string{"member-1"}
	svc := services.NewRoomService(repo)

	_, isOwner, err := svc.Get(context.Background(), "room-1", "owner-1")
	require.NoError(t, err)
	assert.True(t, isOwner)

	_, isOwner, err = svc.Get(context.Background(), "room-1", "member-1")
	require.NoError(t, err)
	assert.False(t, isOwner)
}

func TestRoomGet_NonMemberDenied(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	svc := services.NewRoomService(repo)

	_, _, err := svc.Get(context.Background(), "room-1", "stranger-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestRoomUpdate_NonOwnerDenied(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	// A member with read access must still be denied write access.
	repo.members["room-1"] = []string{"member-1"}
	svc := services.NewRoomService(repo)

	name := "Evil Corp"
	_, err := svc.Update(context.Background(), "room-1", "member-1", services.RoomUpdate{CompanyName: &name})
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Zero(t, repo.saveCalls)
	assert.Equal(t, "Acme", repo.rooms["room-1"].CompanyName)
}

func TestRoomUpdate_PartialFields(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	svc := services.NewRoomService(repo)

	stage := "seed"
	room, err := svc.Update(context.Background(), "room-1", "owner-1", services.RoomUpdate{Stage: &stage})
	require.NoError(t, err)
	assert.Equal(t, "Acme", room.CompanyName)
	require.NotNil(t, room.Stage)
	assert.Equal(t, "seed", *room.Stage)
}

func TestRoomDelete_NonOwnerDenied(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	svc := services.NewRoomService(repo)

	err := svc.Delete(context.Background(), "room-1", "stranger-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Empty(t, repo.deletes)
}

func TestRoomDelete_Owner(t *testing.T) {
	repo := newFakeRoomRepo()
	seedRoom(repo)
	svc := services.NewRoomService(repo)

	err := svc.Delete(context.Background(), "room-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"room-1"}, repo.deletes)
}

func TestRoomOps_NotFound(t *testing.T) {
	svc := services.NewRoomService(newFakeRoomRepo())

	_, _, err := svc.Get(context.Background(), "missing", "u-1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Update(context.Background(), "missing", "u-1", services.RoomUpdate{})
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = svc.Delete(context.Background(), "missing", "u-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
