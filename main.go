package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sayidabyan/s-drive-server/config"
	"github.com/sayidabyan/s-drive-server/database"
	"github.com/sayidabyan/s-drive-server/handlers"
	"github.com/sayidabyan/s-drive-server/logger"
	"github.com/sayidabyan/s-drive-server/middleware"
	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	log.Println("starting s-drive-server")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("init database failed: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migration completed")

	redisClient := database.InitRedis(&cfg.Redis)

	mirror, err := storage.NewDiskMirror(cfg.Storage.Root)
	if err != nil {
		log.Fatalf("init storage root failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(db, redisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer, mirror)
	handlers.SetServices(serviceContainer)

	if err := bootstrapAdmin(serviceContainer, repoContainer, cfg); err != nil {
		log.Fatalf("bootstrap admin failed: %v", err)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())
	setupRoutes(r, serviceContainer, db, redisClient)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

// bootstrapAdmin provisions the configured admin account on first start so
// the user-management surface is reachable on a fresh deployment.
func bootstrapAdmin(svcs *services.Container, repos repositories.Container, cfg *config.Config) error {
	ctx := context.Background()

	_, err := repos.Users.GetByUsername(ctx, nil, cfg.Bootstrap.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	_, err = svcs.User.CreateUser(ctx, services.CreateUserInput{
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
		IsAdmin:  true,
	})
	return err
}

func setupRoutes(r *gin.Engine, svcs *services.Container, db *gorm.DB, redisClient *redis.Client) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck(db, redisClient))
	api.POST("/auth/token", handlers.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(svcs.Auth))
	{
		protected.GET("/auth/me", handlers.GetCurrentUser)

		protected.GET("/folders/:id", handlers.GetFolderChildren)
		protected.POST("/folders", handlers.CreateFolder)
		protected.DELETE("/folders/:id", handlers.DeleteFolder)

		protected.POST("/files", handlers.UploadFile)
		protected.GET("/files/:id", handlers.DownloadFile)
		protected.DELETE("/files/:id", handlers.DeleteFile)

		admin := protected.Group("/users")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("", handlers.CreateUser)
			admin.GET("", handlers.ListUsers)
			admin.DELETE("/:id", handlers.DeleteUser)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "not found"})
	})
}
