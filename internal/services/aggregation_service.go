package services

import "feishu-attendance-report/internal/models"

// AggregationEngine folds check-in records into per-department rollups.
type AggregationEngine struct{}

// NewAggregationEngine creates a new aggregation engine
func NewAggregationEngine() *AggregationEngine {
	return &AggregationEngine{}
}

// Aggregate groups records by exact department name in a single pass. Each
// record increments exactly one of the on-time/late counters on both the
// department and its per-user entry, so the totals always add up to the
// record count. The input is never mutated and the map carries no ordering;
// an empty input yields an empty map, which callers treat as "no data"
// rather than an error.
func (e *AggregationEngine) Aggregate(records []models.CheckInRecord) map[string]*models.DepartmentStats {
	stats := make(map[string]*models.DepartmentStats)

	for _, record := range records {
		dept, ok := stats[record.Department]
		if !ok {
			dept = &models.DepartmentStats{
				DepartmentName: record.Department,
				Users:          make(map[string]*models.DepartmentUserStats),
			}
			stats[record.Department] = dept
		}

		user, ok := dept.Users[record.UserID]
		if !ok {
			user = &models.DepartmentUserStats{
				UserID:   record.UserID,
				UserName: record.UserName,
			}
			dept.Users[record.UserID] = user
		}

		if record.IsLate {
			dept.TotalLateCount++
			user.LateCount++
		} else {
			dept.TotalOnTimeCount++
			user.OnTimeCount++
		}
	}

	return stats
}
