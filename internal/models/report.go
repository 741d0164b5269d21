package models

// Period represents the date range a report covers
type Period struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
}

// DepartmentUserStats holds one user's counters inside a department rollup
type DepartmentUserStats struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	OnTimeCount int    `json:"onTimeCount"`
	LateCount   int    `json:"lateCount"`
}

// DepartmentStats is the per-department rollup of on-time/late counters.
// Invariant: TotalOnTimeCount + TotalLateCount equals the number of records
// aggregated under this department, and the same holds per user.
type DepartmentStats struct {
	DepartmentName   string                          `json:"departmentName"`
	TotalOnTimeCount int                             `json:"totalOnTimeCount"`
	TotalLateCount   int                             `json:"totalLateCount"`
	Users            map[string]*DepartmentUserStats `json:"users"`
}

// UserRanking is one user's row in the early-bird ranking. TotalMinutes is
// the mean of the user's daily-first check-in minutes and is the sole sort
// key; ties keep insertion order (stable sort).
type UserRanking struct {
	UserID         string   `json:"userId"`
	UserName       string   `json:"userName"`
	Department     string   `json:"department"`
	AvgCheckInTime string   `json:"avgCheckInTime"` // HH:MM, truncated not rounded
	CheckInCount   int      `json:"checkInCount"`
	LateCount      int      `json:"lateCount"`
	LateDates      []string `json:"lateDates"`
	TotalMinutes   float64  `json:"totalMinutes"`
}

// ReportSummary holds the flat counters computed over the ranking data
type ReportSummary struct {
	TotalDays           int `json:"totalDays"`
	TotalRecords        int `json:"totalRecords"`
	TotalOnTime         int `json:"totalOnTime"`
	TotalLate           int `json:"totalLate"`
	TotalInMorningRange int `json:"totalInMorningRange"`
}

// AttendanceReport is the final artifact delivered to the report sinks.
// Every failure mode still produces a fully-shaped report; Message explains
// degraded or no-data states to the eventual chat-message reader.
type AttendanceReport struct {
	Title           string                      `json:"title"`
	Period          Period                      `json:"period"`
	DepartmentStats map[string]*DepartmentStats `json:"departmentStats"`
	RankingData     []CheckInRecord             `json:"rankingData"`
	TopRanking      []UserRanking               `json:"topRanking,omitempty"`
	BottomRanking   []UserRanking               `json:"bottomRanking,omitempty"`
	LateRanking     []UserRanking               `json:"lateRanking,omitempty"`
	Summary         *ReportSummary              `json:"summary,omitempty"`
	Message         string                      `json:"message,omitempty"`
	AICommentary    string                      `json:"aiCommentary,omitempty"`
	GeneratedAt     string                      `json:"generatedAt"` // ISO 8601
}
