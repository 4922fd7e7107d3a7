package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/middleware"
	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/services"
)

type InviteHandler struct {
	invites *services.InviteService
}

func NewInviteHandler(invites *services.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

type SendInvitesReq struct {
	Recipients string `json:"recipients" binding:"required"`
}

// SendInvites takes free-text recipients (comma or newline separated emails
// and handles) and reports a per-recipient outcome. Route is guarded by
// CheckRoomOwner.
func (h *InviteHandler) SendInvites(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req SendInvitesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := h.invites.Send(c.Request.Context(), room.ID, user.ID, req.Recipients)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListRoomInvites lists a room's memberships for its owner.
func (h *InviteHandler) ListRoomInvites(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

	var memberships []models.Membership
	err := config.DB.Where("room_id = ?", room.ID).Order("created_at desc").Find(&memberships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": memberships})
}

// ListMyInvites lists invites addressed to the caller, matched by email or by
// the handle the inviter typed.
func (h *InviteHandler) ListMyInvites(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	query := config.DB.Where("handle = ?", user.Handle)
	if user.Email != nil && *user.Email != "" {
		query = config.DB.Where("email = ? OR handle = ?", *user.Email, user.Handle)
	}

	var memberships []models.Membership
	if err := query.Order("created_at desc").Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": memberships})
}

type AcceptInviteReq struct {
	Token string `json:"token" binding:"required"`
}

func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req AcceptInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	roomID, err := h.invites.Accept(c.Request.Context(), req.Token, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

// RevokeInvite deletes a still-pending invite. Accepted memberships have no
// revoke transition from this layer.
func (h *InviteHandler) RevokeInvite(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var m models.Membership
	if err := config.DB.Where("id = ?", c.Param("inviteID")).First(&m).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
		return
	}

	var room models.Room
	if err := config.DB.Where("id = ?", m.RoomID).First(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if m.InvitedBy != user.ID && room.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the inviter or room owner may revoke"})
		return
	}
	if m.Status != models.MembershipPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only pending invites can be revoked"})
		return
	}

	if err := config.DB.Delete(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invite revoked"})
}
