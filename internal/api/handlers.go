package api

import (
	"context"
	"errors"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	reportService *services.ReportService
	taskService   *services.TaskService
	scheduler     *services.Scheduler
	triggerKey    string
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	reportService *services.ReportService,
	taskService *services.TaskService,
	scheduler *services.Scheduler,
	triggerKey string,
) *Handlers {
	return &Handlers{
		reportService: reportService,
		taskService:   taskService,
		scheduler:     scheduler,
		triggerKey:    triggerKey,
	}
}

// GenerateReportHandler handles POST /api/reports/generate.
// Report generation runs async; the response carries a task ID to poll.
func (h *Handlers) GenerateReportHandler(c *gin.Context) {
	var req models.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Finished tasks are only kept around long enough to be polled
	h.taskService.CleanupTasks(time.Hour)

	task := h.taskService.CreateTask(req)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		_ = h.taskService.UpdateTaskStatus(task.ID, models.TaskStatusProcessing)

		report, err := h.reportService.FetchAndBuildReport(ctx, req)
		if err != nil {
			_ = h.taskService.SetTaskError(task.ID, err)
			return
		}

		if req.Send {
			if err := h.scheduler.Deliver(ctx, report); err != nil {
				log.Printf("ERROR: Delivery for task %s failed: %v", task.ID, err)
			}
		}

		_ = h.taskService.SetTaskReport(task.ID, report)
	}()

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}

// GenerateReportSyncHandler handles POST /api/reports/generate-sync.
// Generates and returns the report in one round trip.
func (h *Handlers) GenerateReportSyncHandler(c *gin.Context) {
	var req models.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.FetchAndBuildReport(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if req.Send {
		if err := h.scheduler.Deliver(c.Request.Context(), report); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
			return
		}
	}

	c.JSON(http.StatusOK, report)
}

// GetTaskStatusHandler handles GET /api/reports/status/:taskId
func (h *Handlers) GetTaskStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := models.StatusResponse{
		TaskID: task.ID,
		Status: string(task.Status),
		Error:  task.Error,
	}
	if task.Status == models.TaskStatusCompleted {
		resp.Report = task.Report
	}
	c.JSON(http.StatusOK, resp)
}

// TriggerReportHandler handles POST /api/reports/trigger: the key-guarded
// endpoint external cron services call to run the full scheduled pipeline.
func (h *Handlers) TriggerReportHandler(c *gin.Context) {
	if h.triggerKey != "" {
		provided := c.GetHeader("X-Trigger-Key")
		if provided == "" {
			provided = c.Query("key")
		}
		if provided != h.triggerKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid trigger key"})
			return
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := h.scheduler.RunOnce(ctx); err != nil {
			log.Printf("ERROR: Triggered report run failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, models.TriggerResponse{Message: "report run started"})
}
