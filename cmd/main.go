package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dataroom-ai/dataroom-server/config"
	"github.com/dataroom-ai/dataroom-server/controllers"
	"github.com/dataroom-ai/dataroom-server/repository"
	"github.com/dataroom-ai/dataroom-server/routes"
	"github.com/dataroom-ai/dataroom-server/services"
	"github.com/dataroom-ai/dataroom-server/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	config.ConnectDB(cfg)

	storage := utils.NewStorage(cfg.StorageURL, cfg.StorageKey)

	profileRepo := repository.NewGormProfileRepository(config.DB)
	roomRepo := repository.NewGormRoomRepository(config.DB)
	membershipRepo := repository.NewGormMembershipRepository(config.DB)

	roomService := services.NewRoomService(roomRepo)
	inviteService := services.NewInviteService(profileRepo, membershipRepo, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Fatalf("trusted proxies: %v", err)
	}

	routes.Setup(r, routes.Handlers{
		Auth:      controllers.NewAuthHandler(cfg, logger),
		Profiles:  controllers.NewProfileHandler(storage),
		Rooms:     controllers.NewRoomHandler(roomService, storage),
		Documents: controllers.NewDocumentHandler(storage),
		Invites:   controllers.NewInviteHandler(inviteService),
	})

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
