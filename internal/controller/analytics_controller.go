package controller

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/middleware"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/service"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Analytics *service.AnalyticsService
	Scorer    *service.SuspectScorer
	Analyzer  *service.TimeAnalyzer
}

func NewAnalyticsController(analytics *service.AnalyticsService, scorer *service.SuspectScorer, analyzer *service.TimeAnalyzer) *AnalyticsController {
	return &AnalyticsController{
		Analytics: analytics,
		Scorer:    scorer,
		Analyzer:  analyzer,
	}
}

// Funnel godoc
// @Summary Level completion funnel
// @Tags analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.FunnelReport}
// @Router /api/admin/analytics/funnel [get]
func (ac *AnalyticsController) Funnel(ctx *gin.Context) {
	report, err := ac.Analytics.Funnel()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Errors godoc
// @Summary Query error breakdown
// @Tags analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/analytics/errors [get]
func (ac *AnalyticsController) Errors(ctx *gin.Context) {
	rows, err := ac.Analytics.ErrorBreakdown()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"errors": rows})
}

// LearningCurve godoc
// @Summary The session's per-level attempt curve
// @Tags analytics
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/analytics/learning-curve [get]
func (ac *AnalyticsController) LearningCurve(ctx *gin.Context) {
	points, err := ac.Analytics.LearningCurve(middleware.SessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"curve": points})
}

// Suspects godoc
// @Summary Weighted suspect ranking
// @Description Ranks suspects by combining the evidence signals in the case database
// @Tags analytics
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/analytics/suspects [get]
func (ac *AnalyticsController) Suspects(ctx *gin.Context) {
	scores, err := ac.Scorer.Rank(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"suspects": scores})
}

// Activity godoc
// @Summary Hourly phone activity and spikes
// @Tags analytics
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/analytics/activity [get]
func (ac *AnalyticsController) Activity(ctx *gin.Context) {
	hours, err := ac.Analyzer.HourlyCallVolume(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	spikes, err := ac.Analyzer.Spikes(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"hourly": hours, "spikes": spikes})
}
