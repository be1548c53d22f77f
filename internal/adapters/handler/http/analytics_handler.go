package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/core/services"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/overview", h.GetOverview)
		analytics.GET("/trackers/:id/streak", h.GetStreak)
		analytics.GET("/trackers/:id/progress", h.GetGoalProgress)
	}
}

func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	window := 0
	if w := c.Query("window"); w != "" {
		parsed, err := strconv.Atoi(w)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a positive integer of days"})
			return
		}
		// A year is already far beyond anything the dashboard renders.
		if parsed > 366 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window too large, max 366 days"})
			return
		}
		window = parsed
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetStreak(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	streak, err := h.svc.TrackerStreak(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

func (h *AnalyticsHandler) GetGoalProgress(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	progress, err := h.svc.GoalProgress(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
