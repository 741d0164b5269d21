package models

import "time"

// TaskStatus represents the lifecycle state of an async report task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task tracks one async report generation
type Task struct {
	ID        string
	Status    TaskStatus
	Request   GenerateReportRequest
	Report    *AttendanceReport
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
