package controller

import (
	"strconv"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/levels"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/middleware"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/gin-gonic/gin"
)

type GameController struct {
	Registry *levels.Registry
	Progress *service.ProgressService
	Executor *service.QueryExecutor
}

func NewGameController(registry *levels.Registry, progress *service.ProgressService, executor *service.QueryExecutor) *GameController {
	return &GameController{
		Registry: registry,
		Progress: progress,
		Executor: executor,
	}
}

// LevelListEntry is a catalog row; locked levels only reveal their title.
type LevelListEntry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Locked    bool   `json:"locked"`
	Completed bool   `json:"completed"`
}

// Levels godoc
// @Summary List all case levels
// @Tags game
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/game/levels [get]
func (gc *GameController) Levels(ctx *gin.Context) {
	progress, err := gc.Progress.Get(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	completed := make(map[int]bool, len(progress.CompletedLevels))
	for _, id := range progress.CompletedLevels {
		completed[id] = true
	}

	entries := make([]LevelListEntry, 0, gc.Registry.Count())
	for _, level := range gc.Registry.All() {
		entries = append(entries, LevelListEntry{
			ID:        level.ID,
			Title:     level.Title,
			Locked:    level.ID > progress.CurrentLevel,
			Completed: completed[level.ID],
		})
	}
	util.Success(ctx, gin.H{"levels": entries, "current_level": progress.CurrentLevel})
}

// Level godoc
// @Summary Get one level's briefing
// @Tags game
// @Produce  json
// @Param   id path int true "Level id"
// @Success 200 {object} util.Response{data=levels.View}
// @Failure 403 {object} util.Response "Level not yet unlocked"
// @Failure 404 {object} util.Response "Unknown level"
// @Router /api/game/levels/{id} [get]
func (gc *GameController) Level(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid level id")
		return
	}

	level, ok := gc.Registry.Get(id)
	if !ok {
		util.NotFound(ctx, "level not found")
		return
	}

	progress, err := gc.Progress.Get(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if id > progress.CurrentLevel {
		util.Forbidden(ctx, util.ErrLevelNotUnlocked.Error())
		return
	}

	util.Success(ctx, level.View())
}

// GetProgress godoc
// @Summary Get the session's progress
// @Tags game
// @Produce  json
// @Success 200 {object} util.Response{data=service.Progress}
// @Router /api/game/progress [get]
func (gc *GameController) GetProgress(ctx *gin.Context) {
	progress, err := gc.Progress.Get(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// ResetProgress godoc
// @Summary Restart the case from level 1
// @Tags game
// @Produce  json
// @Success 200 {object} util.Response{data=service.Progress}
// @Router /api/game/progress/reset [post]
func (gc *GameController) ResetProgress(ctx *gin.Context) {
	progress, err := gc.Progress.Reset(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type UnlockRequest struct {
	LevelID int `json:"level_id" binding:"required,min=1"`
}

// UnlockLevel godoc
// @Summary Jump to a specific level
// @Tags game
// @Accept  json
// @Produce  json
// @Param   body body UnlockRequest true "Level to jump to"
// @Success 200 {object} util.Response{data=service.Progress}
// @Failure 404 {object} util.Response "Unknown level"
// @Router /api/game/progress/unlock [post]
func (gc *GameController) UnlockLevel(ctx *gin.Context) {
	var req UnlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := gc.Progress.Unlock(ctx.Request.Context(), middleware.SessionID(ctx), req.LevelID)
	if err != nil {
		if err == util.ErrLevelNotFound {
			util.NotFound(ctx, "level not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Tables godoc
// @Summary List tables unlocked for the session
// @Tags game
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/game/tables [get]
func (gc *GameController) Tables(ctx *gin.Context) {
	progress, err := gc.Progress.Get(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"tables": progress.UnlockedTables})
}

// TableSchema godoc
// @Summary Describe an unlocked table
// @Tags game
// @Produce  json
// @Param   name path string true "Table name"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "Table not available yet"
// @Router /api/game/tables/{name}/schema [get]
func (gc *GameController) TableSchema(ctx *gin.Context) {
	name := ctx.Param("name")
	if !gc.tableUnlocked(ctx, name) {
		return
	}

	columns, err := gc.Executor.TableSchema(ctx.Request.Context(), name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"table": name, "columns": columns})
}

// TableSample godoc
// @Summary Preview rows from an unlocked table
// @Tags game
// @Produce  json
// @Param   name path string true "Table name"
// @Success 200 {object} util.Response{data=service.ResultSet}
// @Failure 403 {object} util.Response "Table not available yet"
// @Router /api/game/tables/{name}/sample [get]
func (gc *GameController) TableSample(ctx *gin.Context) {
	name := ctx.Param("name")
	if !gc.tableUnlocked(ctx, name) {
		return
	}

	sample, err := gc.Executor.SampleData(ctx.Request.Context(), name, 5)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, sample)
}

// tableUnlocked replies 403 itself when the table is still locked.
func (gc *GameController) tableUnlocked(ctx *gin.Context, name string) bool {
	progress, err := gc.Progress.Get(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}
	for _, t := range progress.UnlockedTables {
		if t == name {
			return true
		}
	}
	util.Forbidden(ctx, util.ErrTableNotAvailable.Error())
	return false
}
