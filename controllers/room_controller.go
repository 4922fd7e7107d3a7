package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/middleware"
	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/services"
	"github.com/dataroom-ai/dataroom-server/utils"
)

type RoomHandler struct {
	rooms   *services.RoomService
	storage *utils.Storage
}

func NewRoomHandler(rooms *services.RoomService, storage *utils.Storage) *RoomHandler {
	return &RoomHandler{rooms: rooms, storage: storage}
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req services.RoomInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": room})
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	rooms, err := h.rooms.List(c.Request.Context(), user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rooms})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	room, isOwner, err := h.rooms.Get(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": room, "is_owner": isOwner})
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req services.RoomUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), c.Param("id"), user.ID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": room})
}

// DeleteRoom removes stored document objects first, then the room and its
// dependent rows.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)
	roomID := c.Param("id")

	var docs []models.Document
	config.DB.Where("room_id = ? AND kind = ?", roomID, models.DocumentKindFile).Find(&docs)

	if err := h.rooms.Delete(c.Request.Context(), roomID, user.ID); err != nil {
		abortWithError(c, err)
		return
	}

	for _, d := range docs {
		if d.FilePath != nil {
			// Best effort; the rows are already gone.
			_ = h.storage.Remove(utils.BucketDocuments, *d.FilePath)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

// UploadLogo writes the image to the logos bucket and patches the room row,
// same two-step flow as avatars.
func (h *RoomHandler) UploadLogo(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

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

	path := room.ID + "/logo" + filepath.Ext(fileHeader.Filename)
	url, err := h.storage.Upload(utils.BucketRoomLogos, path, f, fileHeader.Header.Get("Content-Type"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Model(&room).Update("logo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
