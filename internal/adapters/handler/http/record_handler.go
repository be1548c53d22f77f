package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/services"
)

type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{
		svc: svc,
	}
}

type logRecordRequest struct {
	TrackerID      string            `json:"tracker_id" binding:"required"`
	Day            string            `json:"day" binding:"required"`
	Completed      bool              `json:"completed"`
	Value          float64           `json:"value"`
	Notes          string            `json:"notes"`
	Parts          []string          `json:"parts"`
	SlotCategories map[string]string `json:"slot_categories"`
}

type updateRecordRequest struct {
	Completed      bool              `json:"completed"`
	Value          float64           `json:"value"`
	Notes          string            `json:"notes"`
	Parts          []string          `json:"parts"`
	SlotCategories map[string]string `json:"slot_categories"`
	Version        int               `json:"version" binding:"required"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.POST("", h.Log)
		records.GET("", h.ListByTracker)
		records.GET("/sync", h.Sync)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}

func (h *RecordHandler) Log(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req logRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.svc.Log(c.Request.Context(), services.LogRecordInput{
		TrackerID:      req.TrackerID,
		UserID:         userID,
		Day:            req.Day,
		Completed:      req.Completed,
		Value:          req.Value,
		Notes:          req.Notes,
		Parts:          req.Parts,
		SlotCategories: req.SlotCategories,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.svc.Update(c.Request.Context(), services.UpdateRecordInput{
		ID:             c.Param("id"),
		UserID:         userID,
		Completed:      req.Completed,
		Value:          req.Value,
		Notes:          req.Notes,
		Parts:          req.Parts,
		SlotCategories: req.SlotCategories,
		Version:        req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Delete(c *gin.Context) {
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

func (h *RecordHandler) ListByTracker(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	trackerID := c.Query("tracker_id")
	if trackerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tracker_id is required"})
		return
	}

	var from, to domain.DayKey
	if f := c.Query("from"); f != "" {
		day, err := domain.ParseDayKey(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = day
	}
	if t := c.Query("to"); t != "" {
		day, err := domain.ParseDayKey(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = day
	}

	// One bound without the other defaults the missing end to a 30 day span.
	if from != "" && to == "" {
		to = domain.Today()
	}
	if to != "" && from == "" {
		from = to.AddDays(-30)
	}

	list, err := h.svc.ListByTrackerID(c.Request.Context(), trackerID, userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecordHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	sinceStr := c.Query("since")
	var since time.Time

	if sinceStr != "" {
		var err error
		since, err = time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use RFC3339)"})
			return
		}
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}
