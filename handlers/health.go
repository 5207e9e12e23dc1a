package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthCheck reports service liveness along with the state of the backing
// stores.
func HealthCheck(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "down"
		}

		redisStatus := "ok"
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}

		code := http.StatusOK
		if dbStatus != "ok" || redisStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, utils.Response{Code: code, Message: "ok", Data: gin.H{
			"service":  "s-drive-server",
			"database": dbStatus,
			"redis":    redisStatus,
		}})
	}
}
