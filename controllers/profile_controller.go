package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/middleware"
	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/utils"
)

type ProfileHandler struct {
	storage *utils.Storage
}

func NewProfileHandler(storage *utils.Storage) *ProfileHandler {
	return &ProfileHandler{storage: storage}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)
	c.JSON(http.StatusOK, gin.H{"profile": publicProfile(user)})
}

// ProfileUpdateReq deliberately omits role, id and created_at; those fields
// are not writable from this layer.
type ProfileUpdateReq struct {
	DisplayName *string `json:"display_name"`
	Handle      *string `json:"handle"`
	Email       *string `json:"email"`
	AvatarURL   *string `json:"avatar_url"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req ProfileUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display name cannot be empty"})
			return
		}
		user.DisplayName = name
	}
	if req.Handle != nil {
		handle := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(*req.Handle, "@")))
		if len(handle) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle must be at least 3 characters"})
			return
		}
		user.Handle = handle
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		user.Email = &email
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := config.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email or handle already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": publicProfile(user)})
}

// CheckHandle reports availability of a handle, ignoring the caller's own row
// so renaming to your current handle reads as available.
func (h *ProfileHandler) CheckHandle(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	handle := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c.Query("handle"), "@")))
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle is required"})
		return
	}

	var count int64
	err := config.DB.Model(&models.Profile{}).
		Where("handle = ? AND id <> ?", handle, user.ID).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"handle": handle, "available": count == 0})
}

// UploadAvatar writes the image to the avatars bucket and then patches the
// profile row with the resulting public URL.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file received"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	path := user.ID + "/avatar" + filepath.Ext(fileHeader.Filename)
	url, err := h.storage.Upload(utils.BucketAvatars, path, f, fileHeader.Header.Get("Content-Type"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Model(&user).Update("avatar_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
