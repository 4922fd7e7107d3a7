package models

import "time"

const (
	MembershipPending  = "pending"
	MembershipAccepted = "accepted"

	// Invite-created rows always carry the investor role.
	MembershipRoleInvestor = "investor"
)

// Membership links a room to an invited recipient. One row per (room, email):
// repeat invites reuse the existing row and its token.
type Membership struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RoomID     string    `gorm:"column:room_id;type:uuid;not null;uniqueIndex:idx_memberships_room_email" json:"room_id"`
	InvitedBy  string    `gorm:"column:invited_by;type:uuid;not null" json:"invited_by"`
	Email      string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_memberships_room_email" json:"email"`
	Handle     *string   `gorm:"column:handle;size:50" json:"handle,omitempty"`
	Role       string    `gorm:"column:role;size:20;not null;default:'investor'" json:"role"`
	Status     string    `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	Token      string    `gorm:"column:token;size:64;uniqueIndex;not null" json:"-"`
	AcceptedBy *string   `gorm:"column:accepted_by;type:uuid" json:"accepted_by,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}
