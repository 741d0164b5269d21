package models

// GenerateReportRequest represents the request to build an attendance report
type GenerateReportRequest struct {
	UserIDs   []string `json:"userIds"`             // defaults to the configured list when empty
	StartDate string   `json:"startDate,omitempty"` // YYYY-MM-DD; defaults to last week's Monday
	EndDate   string   `json:"endDate,omitempty"`   // YYYY-MM-DD; defaults to last week's Sunday
	Send      bool     `json:"send"`                // also deliver to the configured sinks
}

// TaskResponse represents the response when creating an async task
type TaskResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"` // "pending", "processing", "completed", "failed"
}

// StatusResponse represents the response when checking task status
type StatusResponse struct {
	TaskID string            `json:"taskId"`
	Status string            `json:"status"`
	Report *AttendanceReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// TriggerResponse is returned by the key-guarded manual trigger endpoint
type TriggerResponse struct {
	Message string `json:"message"`
}
