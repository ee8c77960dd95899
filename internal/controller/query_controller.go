package controller

import (
	"errors"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/middleware"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QueryController struct {
	Validator *service.SQLValidator
	Executor  *service.QueryExecutor
	Checker   *service.LevelChecker
	Progress  *service.ProgressService
	Attempts  *repository.AttemptRepository
	Log       *zap.Logger
}

func NewQueryController(validator *service.SQLValidator, executor *service.QueryExecutor, checker *service.LevelChecker, progress *service.ProgressService, attempts *repository.AttemptRepository, log *zap.Logger) *QueryController {
	return &QueryController{
		Validator: validator,
		Executor:  executor,
		Checker:   checker,
		Progress:  progress,
		Attempts:  attempts,
		Log:       log,
	}
}

type ExecuteRequest struct {
	Query string `json:"query" binding:"required"`
}

// QueryError is the player-facing failure shape for a rejected or failed query.
type QueryError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ExecuteResponse struct {
	Success bool               `json:"success"`
	Result  *service.ResultSet `json:"result,omitempty"`
	Error   *QueryError        `json:"error,omitempty"`
}

// Execute godoc
// @Summary Run an exploratory query
// @Description Validates and executes a read-only SQL query against the case database
// @Tags query
// @Accept  json
// @Produce  json
// @Param   body body ExecuteRequest true "SQL query"
// @Success 200 {object} util.Response{data=ExecuteResponse}
// @Failure 400 {object} util.Response "Malformed request body"
// @Router /api/query/execute [post]
func (qc *QueryController) Execute(ctx *gin.Context) {
	var req ExecuteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sessionID := middleware.SessionID(ctx)

	if verr := qc.Validator.Validate(req.Query); verr != nil {
		qc.logAttempt(&model.QueryAttemptLog{
			SessionID:    sessionID,
			QueryText:    req.Query,
			IsValid:      false,
			ErrorType:    service.ErrKindValidation,
			ErrorMessage: verr.Reason,
		})
		util.Success(ctx, ExecuteResponse{
			Success: false,
			Error:   &QueryError{Type: service.ErrKindValidation, Message: verr.Reason},
		})
		return
	}

	start := time.Now()
	result, err := qc.Executor.Execute(ctx.Request.Context(), req.Query)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		attempt := &model.QueryAttemptLog{
			SessionID:       sessionID,
			QueryText:       req.Query,
			IsValid:         true,
			ExecutionTimeMs: elapsed,
			ErrorMessage:    err.Error(),
			ErrorType:       service.ErrKindOther,
		}
		var execErr *service.ExecError
		if errors.As(err, &execErr) {
			attempt.ErrorType = execErr.Kind
		}
		qc.logAttempt(attempt)
		util.Success(ctx, ExecuteResponse{
			Success: false,
			Error:   &QueryError{Type: attempt.ErrorType, Message: err.Error()},
		})
		return
	}

	qc.logAttempt(&model.QueryAttemptLog{
		SessionID:       sessionID,
		QueryText:       req.Query,
		IsValid:         true,
		ExecutionTimeMs: elapsed,
	})
	util.Success(ctx, ExecuteResponse{Success: true, Result: result})
}

type CheckRequest struct {
	LevelID int    `json:"level_id" binding:"required,min=1"`
	Query   string `json:"query" binding:"required"`
}

type CheckResponse struct {
	*service.CheckResult
	Progress *service.Progress `json:"progress,omitempty"`
}

// Check godoc
// @Summary Check a level answer
// @Description Runs the submitted query and compares its result set against the level's expected answer
// @Tags query
// @Accept  json
// @Produce  json
// @Param   body body CheckRequest true "Level id and SQL query"
// @Success 200 {object} util.Response{data=CheckResponse}
// @Failure 400 {object} util.Response "Malformed request body"
// @Failure 404 {object} util.Response "Unknown level"
// @Router /api/query/check [post]
func (qc *QueryController) Check(ctx *gin.Context) {
	var req CheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sessionID := middleware.SessionID(ctx)

	start := time.Now()
	verdict, err := qc.Checker.Check(ctx.Request.Context(), req.LevelID, req.Query)
	if err != nil {
		if errors.Is(err, util.ErrLevelNotFound) {
			util.NotFound(ctx, "level not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	elapsed := time.Since(start).Milliseconds()

	qc.logAttempt(checkAttemptLog(sessionID, &req, verdict, elapsed))

	progress, perr := qc.Progress.RecordCheck(ctx.Request.Context(), sessionID, req.LevelID, verdict.Correct)
	if perr != nil {
		qc.Log.Warn("progress update failed", zap.String("session_id", sessionID), zap.Error(perr))
	}

	util.Success(ctx, CheckResponse{CheckResult: verdict, Progress: progress})
}

// checkAttemptLog maps a level-check verdict onto the analytics row. A query
// that failed validation or execution keeps its distinct error kind so the
// error-frequency report stays meaningful.
func checkAttemptLog(sessionID string, req *CheckRequest, verdict *service.CheckResult, elapsedMs int64) *model.QueryAttemptLog {
	correct := verdict.Correct
	attempt := &model.QueryAttemptLog{
		SessionID:       sessionID,
		LevelID:         req.LevelID,
		QueryText:       req.Query,
		IsValid:         verdict.FailureKind != service.ErrKindValidation,
		IsCorrect:       &correct,
		ExecutionTimeMs: elapsedMs,
		ErrorType:       verdict.FailureKind,
	}
	if verdict.FailureKind != "" {
		attempt.ErrorMessage = verdict.Message
	}
	return attempt
}

// BlockedKeywords godoc
// @Summary List forbidden SQL keywords
// @Tags query
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/query/blocked-keywords [get]
func (qc *QueryController) BlockedKeywords(ctx *gin.Context) {
	util.Success(ctx, gin.H{"blocked_keywords": service.BlockedKeywords})
}

// logAttempt writes off the request path; analytics loss is acceptable,
// slowing the player is not.
func (qc *QueryController) logAttempt(attempt *model.QueryAttemptLog) {
	go func() {
		if err := qc.Attempts.LogAttempt(attempt); err != nil {
			qc.Log.Warn("attempt log write failed", zap.Error(err))
			return
		}
		if err := qc.Attempts.TouchSession(attempt.SessionID); err != nil {
			qc.Log.Warn("session touch failed", zap.Error(err))
		}
	}()
}
