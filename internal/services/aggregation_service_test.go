package services

import (
	"testing"

	"feishu-attendance-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(userID, userName, department string, isLate bool) models.CheckInRecord {
	return models.CheckInRecord{
		Date:       "2026-08-17",
		UserID:     userID,
		UserName:   userName,
		Department: department,
		IsLate:     isLate,
	}
}

func TestAggregateCountersAddUp(t *testing.T) {
	engine := NewAggregationEngine()

	records := []models.CheckInRecord{
		record("u1", "张三", "工程部", false),
		record("u1", "张三", "工程部", true),
		record("u2", "李四", "工程部", false),
		record("u3", "王五", "市场部", true),
	}

	stats := engine.Aggregate(records)
	require.Len(t, stats, 2)

	eng := stats["工程部"]
	require.NotNil(t, eng)
	assert.Equal(t, 2, eng.TotalOnTimeCount)
	assert.Equal(t, 1, eng.TotalLateCount)
	assert.Len(t, eng.Users, 2)
	assert.Equal(t, 1, eng.Users["u1"].OnTimeCount)
	assert.Equal(t, 1, eng.Users["u1"].LateCount)
	assert.Equal(t, 1, eng.Users["u2"].OnTimeCount)

	mkt := stats["市场部"]
	require.NotNil(t, mkt)
	assert.Equal(t, 0, mkt.TotalOnTimeCount)
	assert.Equal(t, 1, mkt.TotalLateCount)

	// department totals equal the sum of their users' counters
	for _, dept := range stats {
		onTime, late := 0, 0
		for _, user := range dept.Users {
			onTime += user.OnTimeCount
			late += user.LateCount
		}
		assert.Equal(t, dept.TotalOnTimeCount, onTime)
		assert.Equal(t, dept.TotalLateCount, late)
	}
}

func TestAggregateDistinctDepartmentNames(t *testing.T) {
	engine := NewAggregationEngine()

	// department names match exactly, no fuzzy merging
	stats := engine.Aggregate([]models.CheckInRecord{
		record("u1", "张三", "工程部", false),
		record("u2", "李四", "工程部 ", false),
	})
	assert.Len(t, stats, 2)
}

func TestAggregateEmptyInput(t *testing.T) {
	engine := NewAggregationEngine()
	stats := engine.Aggregate(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	engine := NewAggregationEngine()
	records := []models.CheckInRecord{record("u1", "张三", "工程部", false)}
	snapshot := records[0]

	engine.Aggregate(records)
	engine.Aggregate(records)
	assert.Equal(t, snapshot, records[0])
}
