package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dataroom-ai/dataroom-server/controllers"
	"github.com/dataroom-ai/dataroom-server/middleware"
)

type Handlers struct {
	Auth      *controllers.AuthHandler
	Profiles  *controllers.ProfileHandler
	Rooms     *controllers.RoomHandler
	Documents *controllers.DocumentHandler
	Invites   *controllers.InviteHandler
}

func Setup(r *gin.Engine, h Handlers) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitAuth(), h.Auth.Register)
			auth.POST("/login", middleware.RateLimitAuth(), h.Auth.Login)
			auth.POST("/google", middleware.RateLimitAuth(), h.Auth.GoogleLogin)
			auth.GET("/session", middleware.OptionalAuth(), h.Auth.Session)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.Me)
			auth.POST("/logout", middleware.RequireAuth(), h.Auth.Logout)
			auth.POST("/password-reset", middleware.RateLimitAuth(), h.Auth.RequestPasswordReset)
			auth.POST("/password-reset/confirm", middleware.RateLimitAuth(), h.Auth.ConfirmPasswordReset)
			auth.PUT("/password", middleware.RequireAuth(), h.Auth.UpdatePassword)
		}

		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", h.Profiles.GetMyProfile)
			profile.PUT("", h.Profiles.UpdateProfile)
			profile.GET("/handle-check", h.Profiles.CheckHandle)
			profile.POST("/avatar", h.Profiles.UploadAvatar)
		}

		rooms := api.Group("/rooms")
		rooms.Use(middleware.RequireAuth())
		{
			rooms.POST("", h.Rooms.CreateRoom)
			rooms.GET("", h.Rooms.ListRooms)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.PUT("/:id", h.Rooms.UpdateRoom)
			rooms.DELETE("/:id", h.Rooms.DeleteRoom)
			rooms.POST("/:id/logo", middleware.CheckRoomOwner(), h.Rooms.UploadLogo)

			rooms.POST("/:id/documents", middleware.CheckRoomOwner(), h.Documents.UploadDocument)
			rooms.POST("/:id/documents/link", middleware.CheckRoomOwner(), h.Documents.CreateLinkDocument)
			rooms.GET("/:id/documents", middleware.CheckRoomAccess(), h.Documents.ListDocuments)

			rooms.POST("/:id/invites", middleware.CheckRoomOwner(), middleware.RateLimitInvites(), h.Invites.SendInvites)
			rooms.GET("/:id/invites", middleware.CheckRoomOwner(), h.Invites.ListRoomInvites)
		}

		documents := api.Group("/documents")
		documents.Use(middleware.RequireAuth())
		{
			documents.DELETE("/:id", h.Documents.DeleteDocument)
			documents.GET("/:id/url", h.Documents.GetDocumentURL)
		}

		invites := api.Group("/invites")
		invites.Use(middleware.RequireAuth())
		{
			invites.GET("", h.Invites.ListMyInvites)
			invites.POST("/accept", h.Invites.AcceptInvite)
			invites.DELETE("/:inviteID", h.Invites.RevokeInvite)
		}
	}
}
