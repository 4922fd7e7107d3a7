package models

import "time"

type Room struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID     string    `gorm:"column:owner_id;type:uuid;index;not null" json:"owner_id"`
	CompanyName string    `gorm:"column:company_name;size:200;not null" json:"company_name"`
	Stage       *string   `gorm:"column:stage;size:50" json:"stage,omitempty"`
	Website     *string   `gorm:"column:website;size:500" json:"website,omitempty"`
	Location    *string   `gorm:"column:location;size:200" json:"location,omitempty"`
	LogoURL     *string   `gorm:"column:logo_url;size:500" json:"logo_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Documents []Document `gorm:"foreignKey:RoomID" json:"-"`
}

func (Room) TableName() string {
	return "rooms"
}
