package models

import (
	"fmt"
	"strconv"
	"strings"
)

// The two upstream response shapes the normalizer understands. Field names
// follow the Feishu attendance v1 endpoints (user_stats_datas/query and
// user_tasks/query); both arrive with most sub-fields optional, so every
// pointer/empty case maps to a named normalization outcome rather than a
// panic.

// DepartmentFieldCode is the stats-field code that carries the department
// display name in a user_stats entry.
const DepartmentFieldCode = "50102"

// StatsPayload mirrors the data object of a user_stats_datas/query response
type StatsPayload struct {
	UserDatas []UserStatsData `json:"user_datas"`
}

// UserStatsData is one user's monthly stats entry
type UserStatsData struct {
	Name   string       `json:"name"`
	UserID string       `json:"user_id"`
	Datas  []StatsField `json:"datas"`
}

// StatsField is one code/value pair inside a user stats entry. Day fields use
// a YYYY-MM-DD code and a comma-joined punch string value, e.g.
// "正常(07:50),正常(17:35)".
type StatsField struct {
	Code     string         `json:"code"`
	Title    string         `json:"title"`
	Value    string         `json:"value"`
	Features []StatsFeature `json:"features"`
}

// StatsFeature is an embedded feature flag, e.g. {Key: "Abnormal", Value: "true"}
type StatsFeature struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TaskPayload mirrors the data object of a user_tasks/query response
type TaskPayload struct {
	UserTaskResults []UserTaskResult `json:"user_task_results"`
}

// UserTaskResult is one user's punch-task list
type UserTaskResult struct {
	UserID       string       `json:"user_id"`
	EmployeeName string       `json:"employee_name"`
	GroupName    string       `json:"group_name"`
	Records      []TaskRecord `json:"records"`
}

// TaskRecord is one day's task entry; CheckInRecord is absent on days
// without a registered punch.
type TaskRecord struct {
	Day             int          `json:"day"` // YYYYMMDD
	CheckInRecordID string       `json:"check_in_record_id"`
	CheckInRecord   *PunchRecord `json:"check_in_record"`
}

// PunchRecord is a single clock-in event. CheckTime is a unix timestamp the
// upstream reports inconsistently in seconds or milliseconds, and
// inconsistently as a JSON number or string.
type PunchRecord struct {
	CheckTime   UnixTime `json:"check_time"`
	Result      string   `json:"result"`        // Normal, Late, SeriousLate, Lack, ...
	CheckInType string   `json:"check_in_type"` // OnDuty, OffDuty, or empty
}

// UnixTime accepts a unix timestamp encoded as a JSON number or a quoted
// numeric string. Zero means absent.
type UnixTime int64

func (t *UnixTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unix timestamp %q: %w", s, err)
	}
	*t = UnixTime(v)
	return nil
}

// RawAttendancePayload carries whichever upstream shape a fetch produced.
// Exactly one of the two fields is expected to be set; both nil means no data.
type RawAttendancePayload struct {
	Stats *StatsPayload `json:"stats,omitempty"`
	Tasks *TaskPayload  `json:"tasks,omitempty"`
}
