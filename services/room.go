package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/repository"
)

type RoomService struct {
	rooms repository.RoomRepository
}

func NewRoomService(rooms repository.RoomRepository) *RoomService {
	return &RoomService{rooms: rooms}
}

type RoomInput struct {
	CompanyName string  `json:"company_name" binding:"required"`
	Stage       *string `json:"stage"`
	Website     *string `json:"website"`
	Location    *string `json:"location"`
}

// RoomUpdate carries only the fields the caller sent; nil means unchanged.
type RoomUpdate struct {
	CompanyName *string `json:"company_name"`
	Stage       *string `json:"stage"`
	Website     *string `json:"website"`
	Location    *string `json:"location"`
}

func (s *RoomService) Create(ctx context.Context, ownerID string, in RoomInput) (*models.Room, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrValidation)
	}

	room := &models.Room{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		CompanyName: name,
		Stage:       in.Stage,
		Website:     in.Website,
		Location:    in.Location,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context, ownerID string) ([]models.Room, error) {
	return s.rooms.ListByOwner(ctx, ownerID)
}

// Get fetches a room for the caller. Owners always have access; anyone else
// needs an accepted membership and gets the room back with isOwner false.
func (s *RoomService) Get(ctx context.Context, roomID, callerID string) (*models.Room, bool, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}

	if room.OwnerID == callerID {
		return room, true, nil
	}

	member, err := s.rooms.HasAcceptedMember(ctx, roomID, callerID)
	if err != nil {
		return nil, false, err
	}
	if !member {
		return nil, false, ErrForbidden
	}
	return room, false, nil
}

// Update applies a partial update; only the owner may write.
func (s *RoomService) Update(ctx context.Context, roomID, callerID string, in RoomUpdate) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.OwnerID != callerID {
		return nil, ErrForbidden
	}

	if in.CompanyName != nil {
		name := strings.TrimSpace(*in.CompanyName)
		if name == "" {
			return nil, fmt.Errorf("%w: company name is required", ErrValidation)
		}
		room.CompanyName = name
	}
	if in.Stage != nil {
		room.Stage = in.Stage
	}
	if in.Website != nil {
		room.Website = in.Website
	}
	if in.Location != nil {
		room.Location = in.Location
	}

	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room and its dependent rows; only the owner may delete.
// Stored objects belonging to the room's documents are the caller's concern.
func (s *RoomService) Delete(ctx context.Context, roomID, callerID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if room.OwnerID != callerID {
		return ErrForbidden
	}
	return s.rooms.Delete(ctx, roomID)
}
