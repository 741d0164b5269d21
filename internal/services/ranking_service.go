package services

import (
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/utils"
	"sort"
)

// RankingEngine computes per-user average check-in times over morning-window
// records. Lateness here is the recomputed mode (LatenessRecomputed): the
// daily first punch measured against the configured threshold, independent
// of whatever flag the normalizer copied from upstream.
type RankingEngine struct {
	window        MorningWindow
	lateThreshold int
	limit         int
}

// NewRankingEngine creates a ranking engine from the report configuration
func NewRankingEngine(cfg config.ReportConfig) *RankingEngine {
	limit := cfg.RankingLimit
	if limit <= 0 {
		limit = 5
	}
	return &RankingEngine{
		window:        MorningWindow{StartMin: cfg.MorningStartMin, EndMin: cfg.MorningEndMin},
		lateThreshold: cfg.LateThresholdMin,
		limit:         limit,
	}
}

// Rank builds the full user ranking from morning-window records, ascending
// by average check-in minutes (earlier average ranks first).
func (e *RankingEngine) Rank(records []models.CheckInRecord) []models.UserRanking {
	return e.RankFiltered(records, func(r models.CheckInRecord) bool {
		return e.window.Contains(r.TotalMinutes)
	})
}

// RankFiltered ranks the records that pass the given predicate. Only one
// record per user per day contributes: the first seen wins and later punches
// for the same user and date are ignored. Ties on the average keep insertion
// order (stable sort).
func (e *RankingEngine) RankFiltered(records []models.CheckInRecord, include func(models.CheckInRecord) bool) []models.UserRanking {
	type userAcc struct {
		userID       string
		userName     string
		department   string
		totalMinutes int
		days         int
		lateCount    int
		lateDates    []string
	}

	seen := make(map[string]bool) // userID_date
	accs := make(map[string]*userAcc)
	var order []string

	for _, record := range records {
		if !include(record) {
			continue
		}

		key := record.UserID + "_" + record.Date
		if seen[key] {
			continue
		}
		seen[key] = true

		acc, ok := accs[record.UserID]
		if !ok {
			acc = &userAcc{
				userID:     record.UserID,
				userName:   record.UserName,
				department: record.Department,
			}
			accs[record.UserID] = acc
			order = append(order, record.UserID)
		}

		acc.totalMinutes += record.TotalMinutes
		acc.days++
		if IsLateAt(record.TotalMinutes, e.lateThreshold) {
			acc.lateCount++
			acc.lateDates = append(acc.lateDates, record.Date)
		}
	}

	rankings := make([]models.UserRanking, 0, len(order))
	for _, userID := range order {
		acc := accs[userID]
		avg := float64(acc.totalMinutes) / float64(acc.days)
		rankings = append(rankings, models.UserRanking{
			UserID:         acc.userID,
			UserName:       acc.userName,
			Department:     acc.department,
			AvgCheckInTime: utils.FormatClockMinutes(avg),
			CheckInCount:   acc.days,
			LateCount:      acc.lateCount,
			LateDates:      acc.lateDates,
			TotalMinutes:   avg,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalMinutes < rankings[j].TotalMinutes
	})

	return rankings
}

// TopN returns the best-ranked slice. A population no larger than the limit
// comes back whole.
func (e *RankingEngine) TopN(rankings []models.UserRanking) []models.UserRanking {
	if len(rankings) <= e.limit {
		return rankings
	}
	return rankings[:e.limit]
}

// BottomN returns the worst-ranked slice, never overlapping TopN. For a
// population within the limit one could also argue the bottom view should
// equal the full sorted list; we deliberately return nil instead, since TopN
// already returned everyone and repeating them as "latest risers" would show
// each user twice on the report. In between, the slice is clipped to the
// entries TopN did not cover. Do not change one of these readings without
// changing the other.
func (e *RankingEngine) BottomN(rankings []models.UserRanking) []models.UserRanking {
	if len(rankings) <= e.limit {
		return nil
	}
	start := len(rankings) - e.limit
	if start < e.limit {
		start = e.limit
	}
	return rankings[start:]
}

// LateRanking is a second, independently sorted view: descending by
// recomputed late count. It is not derived by re-sorting the caller's slice
// in place.
func (e *RankingEngine) LateRanking(rankings []models.UserRanking) []models.UserRanking {
	sorted := make([]models.UserRanking, len(rankings))
	copy(sorted, rankings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LateCount > sorted[j].LateCount
	})
	return sorted
}
