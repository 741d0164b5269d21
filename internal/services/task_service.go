package services

import (
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/utils"
	"fmt"
	"sync"
	"time"
)

// TaskService manages async report generation tasks in memory
type TaskService struct {
	tasks map[string]*models.Task
	mutex sync.RWMutex
}

// NewTaskService creates a new task service
func NewTaskService() *TaskService {
	return &TaskService{
		tasks: make(map[string]*models.Task),
	}
}

// CreateTask creates a new pending task and returns it
func (s *TaskService) CreateTask(request models.GenerateReportRequest) *models.Task {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	task := &models.Task{
		ID:        utils.GenerateUUID(),
		Status:    models.TaskStatusPending,
		Request:   request,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[task.ID] = task
	return task
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return task, nil
}

// UpdateTaskStatus updates the status of a task
func (s *TaskService) UpdateTaskStatus(taskID string, status models.TaskStatus) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskError marks a task as failed with an error message
func (s *TaskService) SetTaskError(taskID string, err error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}
	task.Status = models.TaskStatusFailed
	task.Error = err.Error()
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskReport stores the completed report in a task
func (s *TaskService) SetTaskReport(taskID string, report *models.AttendanceReport) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}
	task.Status = models.TaskStatusCompleted
	task.Report = report
	task.UpdatedAt = time.Now()
	return nil
}

// CleanupTasks drops finished tasks older than the given age
func (s *TaskService) CleanupTasks(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, task := range s.tasks {
		if task.UpdatedAt.Before(cutoff) &&
			(task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusFailed) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed
}
