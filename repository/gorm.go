package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dataroom-ai/dataroom-server/models"
)

// mapErr translates gorm errors into the repository sentinels; anything else
// passes through verbatim.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *GormProfileRepository) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("LOWER(handle) = LOWER(?)", handle).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *models.Room) error {
	return mapErr(r.db.WithContext(ctx).Create(room).Error)
}

func (r *GormRoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, mapErr(err)
	}
	return &room, nil
}

func (r *GormRoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&rooms).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *models.Room) error {
	return mapErr(r.db.WithContext(ctx).Save(room).Error)
}

func (r *GormRoomRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Room{}).Error
	})
	return mapErr(err)
}

func (r *GormRoomRepository) HasAcceptedMember(ctx context.Context, roomID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("room_id = ? AND accepted_by = ? AND status = ?", roomID, userID, models.MembershipAccepted).
		Count(&count).Error
	if err != nil {
		return false, mapErr(err)
	}
	return count > 0, nil
}

type GormMembershipRepository struct {
	db *gorm.DB
}

func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

func (r *GormMembershipRepository) GetByRoomAndEmail(ctx context.Context, roomID, email string) (*models.Membership, error) {
	var m models.Membership
	if err := r.db.WithContext(ctx).Where("room_id = ? AND email = ?", roomID, email).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *GormMembershipRepository) GetByToken(ctx context.Context, token string) (*models.Membership, error) {
	var m models.Membership
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *GormMembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormMembershipRepository) MarkAccepted(ctx context.Context, id, userID string) error {
	err := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.MembershipAccepted,
			"accepted_by": userID,
		}).Error
	return mapErr(err)
}
