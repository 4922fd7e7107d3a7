package controllers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/middleware"
	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/utils"
)

type DocumentHandler struct {
	storage *utils.Storage
}

func NewDocumentHandler(storage *utils.Storage) *DocumentHandler {
	return &DocumentHandler{storage: storage}
}

// touchRoom bumps updated_at; every document mutation counts as room activity.
func touchRoom(roomID string) {
	config.DB.Model(&models.Room{}).Where("id = ?", roomID).Update("updated_at", time.Now())
}

func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)
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

	id := uuid.NewString()
	path := room.ID + "/" + id + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	if _, err := h.storage.Upload(utils.BucketDocuments, path, f, contentType, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	size := fileHeader.Size
	doc := models.Document{
		ID:          id,
		RoomID:      room.ID,
		UploaderID:  user.ID,
		Kind:        models.DocumentKindFile,
		FileName:    fileHeader.Filename,
		FilePath:    &path,
		ContentType: &contentType,
		FileSize:    &size,
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	touchRoom(room.ID)
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

type LinkDocumentReq struct {
	URL   string `json:"url" binding:"required,url"`
	Label string `json:"label" binding:"required,min=1"`
}

// CreateLinkDocument records an external URL as a document; nothing is stored
// in the bucket.
func (h *DocumentHandler) CreateLinkDocument(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req LinkDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	url := strings.TrimSpace(req.URL)
	doc := models.Document{
		ID:         uuid.NewString(),
		RoomID:     room.ID,
		UploaderID: user.ID,
		Kind:       models.DocumentKindLink,
		FileName:   strings.TrimSpace(req.Label),
		SourceURL:  &url,
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	touchRoom(room.ID)
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

	var docs []models.Document
	err := config.DB.Where("room_id = ?", room.ID).Order("created_at desc").Find(&docs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}

// DeleteDocument removes the row and, for stored files, the underlying
// object. Link documents never touch the bucket. Room owner or the original
// uploader only.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var doc models.Document
	if err := config.DB.Where("id = ?", c.Param("id")).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	var room models.Room
	if err := config.DB.Where("id = ?", doc.RoomID).First(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if room.OwnerID != user.ID && doc.UploaderID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the room owner or uploader may delete this"})
		return
	}

	if doc.Kind == models.DocumentKindFile && doc.FilePath != nil {
		if err := h.storage.Remove(utils.BucketDocuments, *doc.FilePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := config.DB.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	touchRoom(doc.RoomID)
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// GetDocumentURL answers a time-limited signed URL for stored files, or the
// source URL directly for link documents.
func (h *DocumentHandler) GetDocumentURL(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var doc models.Document
	if err := config.DB.Where("id = ?", c.Param("id")).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	var room models.Room
	if err := config.DB.Where("id = ?", doc.RoomID).First(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if room.OwnerID != user.ID {
		var count int64
		config.DB.Model(&models.Membership{}).
			Where("room_id = ? AND accepted_by = ? AND status = ?", room.ID, user.ID, models.MembershipAccepted).
			Count(&count)
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "no access to this document"})
			return
		}
	}

	if doc.Kind == models.DocumentKindLink {
		c.JSON(http.StatusOK, gin.H{"url": doc.SourceURL, "kind": doc.Kind})
		return
	}

	if doc.FilePath == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document has no stored file"})
		return
	}
	url, err := h.storage.SignedURL(utils.BucketDocuments, *doc.FilePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "kind": doc.Kind, "expires_in": utils.SignedURLExpiry})
}
