package repository

import (
	"context"
	"errors"

	"github.com/dataroom-ai/dataroom-server/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetByHandle matches case-insensitively; handles are stored lower-case.
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error)
	Save(ctx context.Context, room *models.Room) error
	// Delete removes the room together with its document and membership rows.
	Delete(ctx context.Context, id string) error
	HasAcceptedMember(ctx context.Context, roomID, userID string) (bool, error)
}

type MembershipRepository interface {
	GetByRoomAndEmail(ctx context.Context, roomID, email string) (*models.Membership, error)
	GetByToken(ctx context.Context, token string) (*models.Membership, error)
	// Create returns ErrDuplicate when the (room, email) pair already exists.
	Create(ctx context.Context, m *models.Membership) error
	// MarkAccepted sets status and the accepting user in a single update.
	MarkAccepted(ctx context.Context, id, userID string) error
}
