package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/core/services"
)

type ScheduleHandler struct {
	svc *services.ScheduleService
}

func NewScheduleHandler(svc *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type blockRequest struct {
	Weekday      int    `json:"weekday"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	TaskName     string `json:"task_name" binding:"required"`
	Color        string `json:"color"`
	Priority     string `json:"priority"`
	LinkedGoalID string `json:"linked_goal_id"`
	Version      int    `json:"version"`
}

type completeBlockRequest struct {
	Completed bool `json:"completed"`
}

func (h *ScheduleHandler) RegisterRoutes(r *gin.RouterGroup) {
	blocks := r.Group("/schedule/blocks")
	{
		blocks.POST("", h.Create)
		blocks.GET("", h.List)
		blocks.PUT("/:id", h.Update)
		blocks.POST("/:id/complete", h.Complete)
		blocks.DELETE("/:id", h.Delete)
	}
}

func (r blockRequest) toInput() services.BlockInput {
	return services.BlockInput{
		Weekday:      r.Weekday,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TaskName:     r.TaskName,
		Color:        r.Color,
		Priority:     r.Priority,
		LinkedGoalID: r.LinkedGoalID,
	}
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, block)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	blocks, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, req.toInput(), req.Version)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, block)
}

func (h *ScheduleHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req completeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.svc.Complete(c.Request.Context(), c.Param("id"), userID, req.Completed)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, block)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
