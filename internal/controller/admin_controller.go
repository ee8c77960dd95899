package controller

import (
	"strconv"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminController struct {
	Config    *config.Config
	Registry  *levels.Registry
	Validator *service.SQLValidator
	Executor  *service.QueryExecutor
	Overrides *repository.LevelOverrideRepository
	Weights   *repository.AnalyticsConfigRepository
	Attempts  *repository.AttemptRepository
	Log       *zap.Logger
}

func NewAdminController(cfg *config.Config, registry *levels.Registry, validator *service.SQLValidator, executor *service.QueryExecutor, overrides *repository.LevelOverrideRepository, weights *repository.AnalyticsConfigRepository, attempts *repository.AttemptRepository, log *zap.Logger) *AdminController {
	return &AdminController{
		Config:    cfg,
		Registry:  registry,
		Validator: validator,
		Executor:  executor,
		Overrides: overrides,
		Weights:   weights,
		Attempts:  attempts,
		Log:       log,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Admin login
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/admin/login [post]
func (ac *AdminController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin := ac.Config.Admin
	if req.Username != admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		ac.Log.Warn("admin login rejected", zap.String("username", req.Username))
		util.Error(ctx, 401, util.ErrInvalidCredentials.Error())
		return
	}

	token, err := util.GenerateJWT(admin.Username, "admin", ac.Config.JWT.Secret, ac.Config.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token})
}

type OverrideRequest struct {
	ExpectedQuery *string `json:"expected_query"`
	Hint          *string `json:"hint"`
	OrderMatters  *bool   `json:"order_matters"`
}

// OverrideLevel godoc
// @Summary Adjust a level's answer or hint
// @Description Stores an override and applies it to the live level registry. The replacement expected query must pass validation and execute successfully before it is accepted.
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Level id"
// @Param   body body OverrideRequest true "Fields to override"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Replacement query is invalid"
// @Failure 404 {object} util.Response "Unknown level"
// @Router /api/admin/levels/{id}/override [put]
func (ac *AdminController) OverrideLevel(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid level id")
		return
	}
	if _, ok := ac.Registry.Get(id); !ok {
		util.NotFound(ctx, "level not found")
		return
	}

	var req OverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// A broken canonical query bricks the level for every player, so prove it
	// runs before storing it.
	if req.ExpectedQuery != nil {
		if verr := ac.Validator.Validate(*req.ExpectedQuery); verr != nil {
			util.BadRequest(ctx, "expected query rejected: "+verr.Reason)
			return
		}
		if _, err := ac.Executor.Execute(ctx.Request.Context(), *req.ExpectedQuery); err != nil {
			util.BadRequest(ctx, "expected query failed: "+err.Error())
			return
		}
	}

	if err := ac.Overrides.Upsert(&model.LevelOverride{
		LevelID:       id,
		ExpectedQuery: req.ExpectedQuery,
		Hint:          req.Hint,
		OrderMatters:  req.OrderMatters,
	}); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ac.Registry.ApplyOverride(id, req.ExpectedQuery, req.Hint, req.OrderMatters)

	ac.Log.Info("level override applied",
		zap.Int("level_id", id),
		zap.Bool("expected_query_changed", req.ExpectedQuery != nil),
	)
	util.Success(ctx, gin.H{"level_id": id})
}

// GetWeights godoc
// @Summary List suspect scoring weights
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/config/weights [get]
func (ac *AdminController) GetWeights(ctx *gin.Context) {
	configs, err := ac.Weights.All()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"weights": configs})
}

type WeightRequest struct {
	Key   string  `json:"key" binding:"required"`
	Value float64 `json:"value"`
}

// UpdateWeight godoc
// @Summary Update one scoring weight
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body WeightRequest true "Weight key and new value"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Unknown weight key"
// @Router /api/admin/config/weights [put]
func (ac *AdminController) UpdateWeight(ctx *gin.Context) {
	var req WeightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := ac.Weights.Update(req.Key, req.Value)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !updated {
		util.NotFound(ctx, "unknown weight key")
		return
	}
	util.Success(ctx, gin.H{"key": req.Key, "value": req.Value})
}

// RecentAttempts godoc
// @Summary Recently submitted queries
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "Max rows (default 50)"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/attempts [get]
func (ac *AdminController) RecentAttempts(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	attempts, err := ac.Attempts.RecentAttempts(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}
