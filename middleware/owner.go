package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/models"
)

const CtxRoom = "roomObj"

// CheckRoomOwner loads the room from the :id param, verifies the caller owns
// it and stashes it in the context for the handler.
func CheckRoomOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user := u.(models.Profile)

		roomID := c.Param("id")
		if roomID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		var room models.Room
		if err := config.DB.Where("id = ?", roomID).First(&room).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}

		if room.OwnerID != user.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "only the room owner may do this"})
			return
		}

		c.Set(CtxRoom, room)
		c.Next()
	}
}

// CheckRoomAccess admits the owner or any accepted member, read-only.
func CheckRoomAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user := u.(models.Profile)

		roomID := c.Param("id")
		var room models.Room
		if err := config.DB.Where("id = ?", roomID).First(&room).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}

		if room.OwnerID != user.ID {
			var count int64
			config.DB.Model(&models.Membership{}).
				Where("room_id = ? AND accepted_by = ? AND status = ?", roomID, user.ID, models.MembershipAccepted).
				Count(&count)
			if count == 0 {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no access to this room"})
				return
			}
		}

		c.Set(CtxRoom, room)
		c.Next()
	}
}
