package controller

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB     *gorm.DB
	Redis  *redis.Client
	GameDB *sql.DB
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, gameDB *sql.DB) *HealthController {
	return &HealthController{DB: db, Redis: rdb, GameDB: gameDB}
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce  json
// @Success 200 {object} object
// @Failure 503 {object} object
// @Router /health [get]
func (hc *HealthController) Health(ctx *gin.Context) {
	checks := gin.H{
		"mysql":   "ok",
		"redis":   "ok",
		"game_db": "ok",
	}
	healthy := true

	if sqlDB, err := hc.DB.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		checks["mysql"] = "down"
		healthy = false
	}
	if err := hc.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
		checks["redis"] = "down"
		healthy = false
	}
	if err := hc.GameDB.PingContext(ctx.Request.Context()); err != nil {
		checks["game_db"] = "down"
		healthy = false
	}

	status := http.StatusOK
	label := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		label = "degraded"
	}
	ctx.JSON(status, gin.H{"status": label, "checks": checks})
}
