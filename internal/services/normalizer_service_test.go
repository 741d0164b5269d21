package services

import (
	"testing"
	"time"

	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReportConfig() config.ReportConfig {
	return config.ReportConfig{
		MorningStartMin:  390,
		MorningEndMin:    510,
		LateThresholdMin: 480,
		RankingLimit:     5,
		LatePunchPolicy:  "on_duty_only",
		TotalDaysMode:    "distinct",
		Timezone:         "Asia/Shanghai",
	}
}

func statsUser(name, userID string, fields ...models.StatsField) models.UserStatsData {
	return models.UserStatsData{Name: name, UserID: userID, Datas: fields}
}

func dayField(date, value string, abnormal bool) models.StatsField {
	field := models.StatsField{
		Code:  date,
		Title: date + " 星期一",
		Value: value,
	}
	if abnormal {
		field.Features = []models.StatsFeature{{Key: "Abnormal", Value: "true"}}
	}
	return field
}

func TestNormalizeStatsParsesDayFields(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	payload := &models.StatsPayload{
		UserDatas: []models.UserStatsData{
			statsUser("张三", "u1",
				models.StatsField{Code: models.DepartmentFieldCode, Title: "部门", Value: "工程部"},
				dayField("2026-08-17", "正常(07:50),正常(17:35)", false),
			),
		},
	}

	records := n.NormalizeStats(payload, models.Period{})
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "2026-08-17", record.Date)
	assert.Equal(t, "07:50:00", record.CheckInTime)
	assert.Equal(t, 470, record.TotalMinutes)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "张三", record.UserName)
	assert.Equal(t, "工程部", record.Department)
	assert.Equal(t, models.StatusNormal, record.Status)
	assert.False(t, record.IsLate)
	assert.True(t, record.IsInMorningRange)
}

func TestNormalizeStatsAbnormalFlag(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	payload := &models.StatsPayload{
		UserDatas: []models.UserStatsData{
			statsUser("李四", "u2", dayField("2026-08-18", "迟到(09:15)", true)),
		},
	}

	records := n.NormalizeStats(payload, models.Period{})
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusAbnormal, records[0].Status)
	assert.True(t, records[0].IsLate)
	assert.False(t, records[0].IsInMorningRange)
	assert.Equal(t, "unknown department", records[0].Department)
}

func TestNormalizeStatsDropsUnparseableDays(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	payload := &models.StatsPayload{
		UserDatas: []models.UserStatsData{
			statsUser("王五", "u3",
				dayField("2026-08-17", "缺卡", false),             // no punch time
				dayField("2026-08-18", "正常(08:00)", false),      // fine
				models.StatsField{Code: "total", Value: "22"},   // aggregate field, not a day
				models.StatsField{Code: "2026-08-19", Title: "2026-08-19", Value: "正常(08:05)"}, // no weekday marker
			),
		},
	}

	records := n.NormalizeStats(payload, models.Period{})
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-18", records[0].Date)
}

func TestNormalizeStatsPeriodFilter(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	payload := &models.StatsPayload{
		UserDatas: []models.UserStatsData{
			statsUser("张三", "u1",
				dayField("2026-08-10", "正常(08:00)", false),
				dayField("2026-08-17", "正常(08:00)", false),
				dayField("2026-08-24", "正常(08:00)", false),
			),
		},
	}

	records := n.NormalizeStats(payload, models.Period{Start: "2026-08-16", End: "2026-08-22"})
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-17", records[0].Date)
}

func TestNormalizeTasksTimestampHeuristic(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	// 2026-08-17 07:50 in Asia/Shanghai
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	punch := time.Date(2026, 8, 17, 7, 50, 0, 0, loc)

	payload := &models.TaskPayload{
		UserTaskResults: []models.UserTaskResult{
			{
				UserID:       "u1",
				EmployeeName: "张三",
				Records: []models.TaskRecord{
					{Day: 20260817, CheckInRecord: &models.PunchRecord{
						CheckTime: models.UnixTime(punch.Unix() * 1000), // milliseconds
						Result:    "Normal",
						CheckInType: "OnDuty",
					}},
				},
			},
		},
	}

	records := n.NormalizeTasks(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-17", records[0].Date)
	assert.Equal(t, "07:50:00", records[0].CheckInTime)
	assert.Equal(t, 470, records[0].TotalMinutes)
}

func TestNormalizeTasksDedupAndDrops(t *testing.T) {
	n := NewNormalizer(testReportConfig())

	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	first := time.Date(2026, 8, 17, 7, 50, 0, 0, loc)
	second := time.Date(2026, 8, 17, 8, 10, 0, 0, loc)

	payload := &models.TaskPayload{
		UserTaskResults: []models.UserTaskResult{
			{
				UserID:       "u1",
				EmployeeName: "张三",
				Records: []models.TaskRecord{
					{Day: 20260817, CheckInRecord: nil}, // no punch, dropped
					{Day: 20260817, CheckInRecord: &models.PunchRecord{
						CheckTime: models.UnixTime(first.Unix()), Result: "Normal", CheckInType: "OnDuty"}},
					{Day: 20260817, CheckInRecord: &models.PunchRecord{
						CheckTime: models.UnixTime(second.Unix()), Result: "Normal", CheckInType: "OnDuty"}},
				},
			},
		},
	}

	records := n.NormalizeTasks(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "07:50:00", records[0].CheckInTime)
}

func TestNormalizeTasksLatePunchPolicy(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	punch := time.Date(2026, 8, 17, 18, 0, 0, 0, loc)

	payload := &models.TaskPayload{
		UserTaskResults: []models.UserTaskResult{
			{
				UserID:       "u1",
				EmployeeName: "张三",
				Records: []models.TaskRecord{
					{Day: 20260817, CheckInRecord: &models.PunchRecord{
						CheckTime: models.UnixTime(punch.Unix()), Result: "Normal", CheckInType: "OffDuty"}},
				},
			},
		},
	}

	onDutyOnly := NewNormalizer(testReportConfig())
	assert.Empty(t, onDutyOnly.NormalizeTasks(payload))

	cfg := testReportConfig()
	cfg.LatePunchPolicy = "any_punch"
	anyPunch := NewNormalizer(cfg)
	assert.Len(t, anyPunch.NormalizeTasks(payload), 1)
}

func TestNormalizeTasksStatusMapping(t *testing.T) {
	tests := []struct {
		result string
		status models.CheckInStatus
		isLate bool
	}{
		{"Normal", models.StatusNormal, false},
		{"Late", models.StatusLate, true},
		{"SeriousLate", models.StatusLate, true},
		{"", models.StatusUnknown, false},
		{"Lack", models.StatusAbnormal, false},
	}

	n := NewNormalizer(testReportConfig())
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	punch := time.Date(2026, 8, 17, 8, 30, 0, 0, loc)

	for _, tt := range tests {
		t.Run("result "+tt.result, func(t *testing.T) {
			payload := &models.TaskPayload{
				UserTaskResults: []models.UserTaskResult{
					{UserID: "u1", EmployeeName: "张三", Records: []models.TaskRecord{
						{Day: 20260817, CheckInRecord: &models.PunchRecord{
							CheckTime: models.UnixTime(punch.Unix()), Result: tt.result, CheckInType: "OnDuty"}},
					}},
				},
			}
			records := n.NormalizeTasks(payload)
			require.Len(t, records, 1)
			assert.Equal(t, tt.status, records[0].Status)
			assert.Equal(t, tt.isLate, records[0].IsLate)
		})
	}
}

func TestNormalizeNilAndEmptyPayloads(t *testing.T) {
	n := NewNormalizer(testReportConfig())
	assert.Empty(t, n.Normalize(nil, models.Period{}))
	assert.Empty(t, n.Normalize(&models.RawAttendancePayload{}, models.Period{}))
	assert.Empty(t, n.Normalize(&models.RawAttendancePayload{Stats: &models.StatsPayload{}}, models.Period{}))
}
