package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/services"
)

type TrackerHandler struct {
	svc *services.TrackerService
}

func NewTrackerHandler(svc *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		svc: svc,
	}
}

type createTrackerRequest struct {
	Kind         string             `json:"kind" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	Color        string             `json:"color"`
	Icon         string             `json:"icon"`
	Unit         string             `json:"unit"`
	TargetAmount float64            `json:"target_amount"`
	Subtasks     []domain.Subtask   `json:"subtasks"`
	Milestones   []domain.Milestone `json:"milestones"`
}

type updateTrackerRequest struct {
	Name         string             `json:"name"`
	Color        string             `json:"color"`
	Icon         string             `json:"icon"`
	Unit         string             `json:"unit"`
	TargetAmount float64            `json:"target_amount"`
	Subtasks     []domain.Subtask   `json:"subtasks"`
	Milestones   []domain.Milestone `json:"milestones"`
	Version      int                `json:"version"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	trackers := router.Group("/trackers")
	{
		trackers.POST("", h.Create)
		trackers.GET("", h.List)
		trackers.GET("/sync", h.Sync)
		trackers.GET("/:id", h.Get)
		trackers.PUT("/:id", h.Update)
		trackers.DELETE("/:id", h.Delete)
	}
}

func (h *TrackerHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tracker, err := h.svc.Create(c.Request.Context(), services.CreateTrackerInput{
		UserID:       userID,
		Kind:         req.Kind,
		Name:         req.Name,
		Color:        req.Color,
		Icon:         req.Icon,
		Unit:         req.Unit,
		TargetAmount: req.TargetAmount,
		Subtasks:     req.Subtasks,
		Milestones:   req.Milestones,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tracker)
}

func (h *TrackerHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if kind := c.Query("kind"); kind != "" {
		list, err := h.svc.ListByKind(c.Request.Context(), userID, kind)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TrackerHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	tracker, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tracker)
}

func (h *TrackerHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	lastSyncStr := c.Query("last_sync")
	var lastSync time.Time
	var err error

	if lastSyncStr != "" {
		lastSync, err = time.Parse(time.RFC3339, lastSyncStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_sync format, use RFC3339"})
			return
		}
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}

func (h *TrackerHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.Update(c.Request.Context(), services.UpdateTrackerInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Name:         req.Name,
		Color:        req.Color,
		Icon:         req.Icon,
		Unit:         req.Unit,
		TargetAmount: req.TargetAmount,
		Subtasks:     req.Subtasks,
		Milestones:   req.Milestones,
		Version:      req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *TrackerHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrTrackerNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrTimeBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrTrackerConflict), errors.Is(err, domain.ErrRecordConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrTrackerNameEmpty),
		errors.Is(err, domain.ErrTrackerNameTooLong),
		errors.Is(err, domain.ErrInvalidTrackerKind),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrTargetNotFinite),
		errors.Is(err, domain.ErrSubtaskNameEmpty),
		errors.Is(err, domain.ErrMilestoneNameEmpty),
		errors.Is(err, domain.ErrInvalidMilestone),
		errors.Is(err, domain.ErrTrackerArchived),
		errors.Is(err, domain.ErrInvalidDayKey),
		errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrTimeBlockNameEmpty),
		errors.Is(err, domain.ErrInvalidClock),
		errors.Is(err, domain.ErrInvalidBlockDay),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrBlockTimeOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
