package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct{}

func (stubTokens) GetToken(ctx context.Context) (string, error) { return "t-token", nil }

type stubSource struct{}

func (stubSource) FetchRawRecords(ctx context.Context, userIDs []string, period models.Period) (*models.RawAttendancePayload, error) {
	return &models.RawAttendancePayload{
		Stats: &models.StatsPayload{
			UserDatas: []models.UserStatsData{
				{
					Name:   "张三",
					UserID: "u1",
					Datas: []models.StatsField{
						{Code: models.DepartmentFieldCode, Title: "部门", Value: "工程部"},
						{Code: "2026-08-17", Title: "2026-08-17 星期一", Value: "正常(07:50),正常(17:35)"},
					},
				},
			},
		},
	}, nil
}

type recordingSink struct {
	sent int
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Send(ctx context.Context, report *models.AttendanceReport) error {
	s.sent++
	return nil
}

func testRouter(t *testing.T) (*gin.Engine, *recordingSink) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.ReportConfig{
		Title:            "Attendance Report",
		Source:           "stats",
		MorningStartMin:  390,
		MorningEndMin:    510,
		LateThresholdMin: 480,
		RankingLimit:     5,
		LatePunchPolicy:  "on_duty_only",
		TotalDaysMode:    "distinct",
		Timezone:         "Asia/Shanghai",
	}

	reportService := services.NewReportService(cfg, stubTokens{}, stubSource{}, nil, nil)
	sink := &recordingSink{}
	scheduler := services.NewScheduler(config.SchedulerConfig{}, reportService, nil, []services.ReportSink{sink})
	handlers := NewHandlers(reportService, services.NewTaskService(), scheduler, "s3cret")
	return SetupRoutes(handlers), sink
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateSyncReturnsReport(t *testing.T) {
	router, _ := testRouter(t)

	body := strings.NewReader(`{"startDate": "2026-08-17", "endDate": "2026-08-23"}`)
	req := httptest.NewRequest("POST", "/api/reports/generate-sync", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.AttendanceReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Attendance Report", report.Title)
	assert.Contains(t, report.DepartmentStats, "工程部")
}

func TestGenerateSyncDeliversWhenRequested(t *testing.T) {
	router, sink := testRouter(t)

	body := strings.NewReader(`{"startDate": "2026-08-17", "endDate": "2026-08-23", "send": true}`)
	req := httptest.NewRequest("POST", "/api/reports/generate-sync", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sink.sent)
}

func TestGenerateAsyncReturnsTaskID(t *testing.T) {
	router, _ := testRouter(t)

	body := strings.NewReader(`{"startDate": "2026-08-17", "endDate": "2026-08-23"}`)
	req := httptest.NewRequest("POST", "/api/reports/generate", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp models.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TaskID)
}

func TestTaskStatusNotFound(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/reports/status/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerRequiresKey(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/reports/trigger", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("POST", "/api/reports/trigger", nil)
	req.Header.Set("X-Trigger-Key", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("POST", "/api/reports/trigger", nil)
	req.Header.Set("X-Trigger-Key", "s3cret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
