package app

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/controller"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/database"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/logger"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/monitoring"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	GameDB   *sql.DB
	Registry *levels.Registry

	services *services
	tracer   interface{ Shutdown(context.Context) error }
}

type repositories struct {
	attempts  *repository.AttemptRepository
	progress  *repository.ProgressRepository
	overrides *repository.LevelOverrideRepository
	weights   *repository.AnalyticsConfigRepository
}

type services struct {
	validator *service.SQLValidator
	executor  *service.QueryExecutor
	checker   *service.LevelChecker
	progress  *service.ProgressService
	analytics *service.AnalyticsService
	scorer    *service.SuspectScorer
	analyzer  *service.TimeAnalyzer
}

type controllers struct {
	query     *controller.QueryController
	game      *controller.GameController
	analytics *controller.AnalyticsController
	admin     *controller.AdminController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		attempts:  repository.NewAttemptRepository(db),
		progress:  repository.NewProgressRepository(db),
		overrides: repository.NewLevelOverrideRepository(db),
		weights:   repository.NewAnalyticsConfigRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, gameDB *sql.DB, rdb *redis.Client) *services {
	s := &services{}

	s.validator = service.NewSQLValidator(cfg.GameDB.MaxQueryLength)
	s.executor = service.NewQueryExecutor(gameDB, cfg.GameDB.QueryTimeout(), cfg.GameDB.MaxResultRows, logger.Log)
	s.checker = service.NewLevelChecker(s.validator, s.executor, a.Registry, logger.Log)
	s.progress = service.NewProgressService(rdb, repos.progress, repos.attempts, a.Registry, logger.Log)
	s.analytics = service.NewAnalyticsService(repos.attempts, logger.Log)
	s.scorer = service.NewSuspectScorer(gameDB, repos.weights, logger.Log)
	s.analyzer = service.NewTimeAnalyzer(gameDB)

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		query:     controller.NewQueryController(s.validator, s.executor, s.checker, s.progress, repos.attempts, logger.Log),
		game:      controller.NewGameController(a.Registry, s.progress, s.executor),
		analytics: controller.NewAnalyticsController(s.analytics, s.scorer, s.analyzer),
		admin:     controller.NewAdminController(a.Config, a.Registry, s.validator, s.executor, repos.overrides, repos.weights, repos.attempts, logger.Log),
		health:    controller.NewHealthController(a.DB, a.Redis, a.GameDB),
	}
}

// applyStoredOverrides replays admin level overrides persisted in MySQL onto
// the static level definitions.
func (a *App) applyStoredOverrides(overrides *repository.LevelOverrideRepository) {
	stored, err := overrides.All()
	if err != nil {
		logger.Log.Warn("level overrides unavailable", zap.Error(err))
		return
	}
	for _, o := range stored {
		if a.Registry.ApplyOverride(o.LevelID, o.ExpectedQuery, o.Hint, o.OrderMatters) {
			logger.Log.Info("level override restored", zap.Int("level_id", o.LevelID))
		}
	}
}

// ReloadLimits is the config-watcher hook; only the query execution bounds
// are safe to change at runtime.
func (a *App) ReloadLimits(cfg *config.Config) {
	a.services.executor.SetLimits(cfg.GameDB.QueryTimeout(), cfg.GameDB.MaxResultRows)
	logger.Log.Info("query limits reloaded",
		zap.Duration("timeout", cfg.GameDB.QueryTimeout()),
		zap.Int("max_result_rows", cfg.GameDB.MaxResultRows),
	)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("logger initialized")

	if err := database.EnsureGameDB(cfg.GameDB.Path); err != nil {
		logger.Log.Fatal("failed to prepare game database", zap.Error(err))
	}
	gameDB, err := database.OpenGameDBReadOnly(cfg.GameDB.Path)
	if err != nil {
		logger.Log.Fatal("failed to open game database", zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		GameDB:   gameDB,
		Registry: levels.Default(),
	}

	repos := app.initRepositories(db)
	app.applyStoredOverrides(repos.overrides)

	services := app.initServices(repos, cfg, gameDB, rdb)
	app.services = services
	controllers := app.initControllers(services, repos)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg, repos)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("sql-detective", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if err := a.GameDB.Close(); err != nil {
		logger.Log.Error("failed to close game database", zap.Error(err))
	}

	log.Println("Server exiting")
}
