package models

import "time"

type Profile struct {
	ID           string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Handle       string     `gorm:"column:handle;size:50;uniqueIndex;not null" json:"handle"`
	DisplayName  string     `gorm:"column:display_name;size:100;not null" json:"display_name"`
	Email        *string    `gorm:"column:email;size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash string     `gorm:"column:password_hash;size:255" json:"-"`
	GoogleID     *string    `gorm:"column:google_id;size:64" json:"-"`
	Role         string     `gorm:"column:role;size:20;default:'founder'" json:"role"`
	AvatarURL    *string    `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	ResetHash    *string    `gorm:"column:reset_hash;size:255" json:"-"`
	ResetExpiry  *time.Time `gorm:"column:reset_expiry" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
