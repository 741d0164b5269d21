package feishu

import (
	"context"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/utils"
	"fmt"
	"log"
	"strconv"
	"time"
)

type statsQueryResponse struct {
	Code int                  `json:"code"`
	Msg  string               `json:"msg"`
	Data *models.StatsPayload `json:"data"`
}

type taskQueryResponse struct {
	Code int                 `json:"code"`
	Msg  string              `json:"msg"`
	Data *models.TaskPayload `json:"data"`
}

// FetchStats queries the monthly attendance stats endpoint for [start, end].
// A non-zero business code comes back as an UpstreamError, never a panic.
func (c *Client) FetchStats(ctx context.Context, token string, start, end time.Time, userIDs []string) (*models.StatsPayload, error) {
	requestBody := map[string]interface{}{
		"current_group_only": true,
		"start_date":         dateInt(start),
		"end_date":           dateInt(end),
		"locale":             "zh",
		"need_history":       true,
		"stats_type":         "month",
		"user_ids":           userIDs,
	}
	if len(userIDs) > 0 {
		requestBody["user_id"] = userIDs[0]
	}

	url := fmt.Sprintf("%s/open-apis/attendance/v1/user_stats_datas/query?employee_type=%s", c.baseURL, c.employeeType)
	var resp statsQueryResponse
	if err := c.postJSON(ctx, token, url, requestBody, &resp); err != nil {
		return nil, fmt.Errorf("query attendance stats: %w", err)
	}
	if resp.Code != 0 {
		return nil, &models.UpstreamError{Code: resp.Code, Message: resp.Msg}
	}
	if resp.Data == nil {
		return nil, &models.UpstreamError{Code: 0, Message: "response missing data field"}
	}
	return resp.Data, nil
}

// FetchTasks queries the punch-task endpoint for [start, end]
func (c *Client) FetchTasks(ctx context.Context, token string, start, end time.Time, userIDs []string) (*models.TaskPayload, error) {
	requestBody := map[string]interface{}{
		"check_date_from": dateInt(start),
		"check_date_to":   dateInt(end),
		"need_overtime":   false,
		"user_ids":        userIDs,
	}

	url := fmt.Sprintf("%s/open-apis/attendance/v1/user_tasks/query?employee_type=%s", c.baseURL, c.employeeType)
	var resp taskQueryResponse
	if err := c.postJSON(ctx, token, url, requestBody, &resp); err != nil {
		return nil, fmt.Errorf("query attendance tasks: %w", err)
	}
	if resp.Code != 0 {
		return nil, &models.UpstreamError{Code: resp.Code, Message: resp.Msg}
	}
	if resp.Data == nil {
		return nil, &models.UpstreamError{Code: 0, Message: "response missing data field"}
	}
	return resp.Data, nil
}

// Source adapts the client to the configured upstream endpoint and batching
// mode. The default path fetches all users in one request; when a batch size
// is configured, batches go out sequentially with a fixed pause between them
// as a rate-limit mitigation.
type Source struct {
	client     *Client
	source     string
	batchSize  int
	batchDelay time.Duration
}

// NewSource creates an attendance source for the configured endpoint
func NewSource(client *Client, cfg config.ReportConfig) *Source {
	return &Source{
		client:     client,
		source:     cfg.Source,
		batchSize:  cfg.BatchSize,
		batchDelay: cfg.BatchDelay,
	}
}

// FetchRawRecords fetches the raw payload for the period and user list
func (s *Source) FetchRawRecords(ctx context.Context, userIDs []string, period models.Period) (*models.RawAttendancePayload, error) {
	start, err := utils.ParseDate(period.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid period start %q: %w", period.Start, err)
	}
	end, err := utils.ParseDate(period.End)
	if err != nil {
		return nil, fmt.Errorf("invalid period end %q: %w", period.End, err)
	}

	token, err := s.client.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	batches := [][]string{userIDs}
	if s.batchSize > 0 && len(userIDs) > s.batchSize {
		batches = splitBatches(userIDs, s.batchSize)
		log.Printf("Fetching %d users in %d batches of up to %d", len(userIDs), len(batches), s.batchSize)
	}

	payload := &models.RawAttendancePayload{}
	for i, batch := range batches {
		if i > 0 && s.batchDelay > 0 {
			time.Sleep(s.batchDelay)
		}

		switch s.source {
		case "tasks":
			data, err := s.client.FetchTasks(ctx, token, start, end, batch)
			if err != nil {
				return nil, err
			}
			if payload.Tasks == nil {
				payload.Tasks = &models.TaskPayload{}
			}
			payload.Tasks.UserTaskResults = append(payload.Tasks.UserTaskResults, data.UserTaskResults...)
		default:
			data, err := s.client.FetchStats(ctx, token, start, end, batch)
			if err != nil {
				return nil, err
			}
			if payload.Stats == nil {
				payload.Stats = &models.StatsPayload{}
			}
			payload.Stats.UserDatas = append(payload.Stats.UserDatas, data.UserDatas...)
		}
	}

	return payload, nil
}

// splitBatches slices userIDs into chunks of at most size
func splitBatches(userIDs []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(userIDs); start += size {
		end := start + size
		if end > len(userIDs) {
			end = len(userIDs)
		}
		batches = append(batches, userIDs[start:end])
	}
	return batches
}

// dateInt renders a date as the YYYYMMDD integer the attendance API expects
func dateInt(t time.Time) int {
	v, _ := strconv.Atoi(t.Format("20060102"))
	return v
}
