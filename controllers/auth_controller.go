package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/middleware"
	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/utils"
)

type AuthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{cfg: cfg, logger: logger}
}

type RegisterReq struct {
	DisplayName string `json:"display_name" binding:"required,min=1"`
	Handle      string `json:"handle" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

func publicProfile(p models.Profile) gin.H {
	return gin.H{
		"id":           p.ID,
		"handle":       p.Handle,
		"display_name": p.DisplayName,
		"email":        p.Email,
		"role":         p.Role,
		"avatar_url":   p.AvatarURL,
		"created_at":   p.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile := models.Profile{
		ID:           uuid.NewString(),
		Handle:       strings.ToLower(strings.TrimSpace(req.Handle)),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Email:        &email,
		PasswordHash: hash,
	}

	if err := config.DB.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email or handle already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": publicProfile(profile)})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&profile).Error
	if err != nil || profile.PasswordHash == "" || !utils.CheckPassword(profile.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": publicProfile(profile)})
}

type GoogleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin verifies a Google ID token and signs the matching profile in,
// provisioning one on first contact.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, h.cfg.GoogleClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
		return
	}

	sub, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	email = strings.ToLower(email)
	if sub == "" || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incomplete Google token"})
		return
	}

	var profile models.Profile
	err = config.DB.Where("google_id = ? OR email = ?", sub, email).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{
			ID:          uuid.NewString(),
			Handle:      deriveHandle(email),
			DisplayName: name,
			Email:       &email,
			GoogleID:    &sub,
		}
		if picture != "" {
			profile.AvatarURL = &picture
		}
		if createErr := config.DB.Create(&profile).Error; createErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": createErr.Error()})
			return
		}
		h.logger.Info("provisioned profile from Google sign-in", zap.String("user_id", profile.ID))
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	default:
		if profile.GoogleID == nil {
			config.DB.Model(&profile).Update("google_id", sub)
		}
	}

	token, err := utils.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": publicProfile(profile)})
}

// deriveHandle builds a handle from the email local part, falling back to a
// random suffix when the obvious one is taken.
func deriveHandle(email string) string {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = "user" + base
	}

	var count int64
	config.DB.Model(&models.Profile{}).Where("handle = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return base + "_" + uuid.NewString()[:8]
}

// Session reports the current session, or null when unauthenticated. Paired
// with OptionalAuth so both states answer 200.
func (h *AuthHandler) Session(c *gin.Context) {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"session": nil})
		return
	}
	claims := v.(*utils.JWTClaims)
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	c.JSON(http.StatusOK, gin.H{
		"session": gin.H{
			"user_id":    claims.UserID,
			"role":       claims.Role,
			"expires_at": claims.ExpiresAt,
		},
		"user": publicProfile(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)
	c.JSON(http.StatusOK, gin.H{"user": publicProfile(user)})
}

// Logout acknowledges sign-out. Sessions are stateless JWTs; the token simply
// stops being presented and expires on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

type PasswordResetReq struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset issues a one-time reset token valid for an hour. The
// response never reveals whether the address exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var profile models.Profile
	if err := config.DB.Where("email = ?", email).First(&profile).Error; err == nil {
		token, err := utils.GenerateOpaqueToken()
		if err == nil {
			if hash, hashErr := utils.HashResetToken(token); hashErr == nil {
				expiry := time.Now().Add(time.Hour)
				config.DB.Model(&profile).Updates(map[string]interface{}{
					"reset_hash":   hash,
					"reset_expiry": expiry,
				})
				// No mailer is wired; delivery happens out of band.
				h.logger.Info("password reset token issued",
					zap.String("user_id", profile.ID),
					zap.String("token", token))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset link has been sent"})
}

type PasswordResetConfirmReq struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&profile).Error
	if err != nil || profile.ResetHash == nil || profile.ResetExpiry == nil ||
		time.Now().After(*profile.ResetExpiry) ||
		!utils.VerifyResetToken(*profile.ResetHash, req.Token) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	if err := config.DB.Model(&profile).Updates(map[string]interface{}{
		"password_hash": hash,
		"reset_hash":    nil,
		"reset_expiry":  nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type PasswordUpdateReq struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdatePassword changes the authenticated caller's password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.Profile)

	var req PasswordUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	if err := config.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
