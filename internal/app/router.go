package app

import (
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/docs"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/middleware"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/logger"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/monitoring"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/security"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/tracing"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config, repos *repositories) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.Session(repos.attempts, logger.Log))
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	a.registerGameRoutes(router, c)
	a.registerAdminRoutes(router, c)
}

func (a *App) registerGameRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		query := api.Group("/query")
		{
			query.POST("/execute", c.query.Execute)
			query.POST("/check", c.query.Check)
			query.GET("/blocked-keywords", c.query.BlockedKeywords)
		}

		game := api.Group("/game")
		{
			game.GET("/levels", c.game.Levels)
			game.GET("/levels/:id", c.game.Level)
			game.GET("/progress", c.game.GetProgress)
			game.POST("/progress/reset", c.game.ResetProgress)
			game.POST("/progress/unlock", c.game.UnlockLevel)
			game.GET("/tables", c.game.Tables)
			game.GET("/tables/:name/schema", c.game.TableSchema)
			game.GET("/tables/:name/sample", c.game.TableSample)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/learning-curve", c.analytics.LearningCurve)
			analytics.GET("/suspects", c.analytics.Suspects)
			analytics.GET("/activity", c.analytics.Activity)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api/admin")
	admin.Use(configInjector(a.Config))

	admin.POST("/login", c.admin.Login)

	authed := admin.Group("/")
	authed.Use(middleware.AdminAuth())
	{
		authed.PUT("/levels/:id/override", c.admin.OverrideLevel)
		authed.GET("/config/weights", c.admin.GetWeights)
		authed.PUT("/config/weights", c.admin.UpdateWeight)
		authed.GET("/attempts", c.admin.RecentAttempts)
		authed.GET("/analytics/funnel", c.analytics.Funnel)
		authed.GET("/analytics/errors", c.analytics.Errors)
	}
}

// configInjector exposes the config to handlers that read it via the context.
func configInjector(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("config", cfg)
		ctx.Next()
	}
}
