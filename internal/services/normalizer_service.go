package services

import (
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/utils"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// millisThreshold separates unix-second from unix-millisecond timestamps.
// The upstream mixes both in the same field; anything above ten digits of
// seconds is treated as milliseconds. Keep this heuristic exactly as is, it
// is the only defense against that inconsistency.
const millisThreshold = int64(10_000_000_000)

// unknownDepartment is the placeholder for users without a department field
const unknownDepartment = "unknown department"

var (
	dateCodePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	punchTimePattern = regexp.MustCompile(`\((\d{2}:\d{2})\)`)
)

// Normalizer converts upstream payloads into canonical check-in records.
// Failure is per record: a malformed entry is logged and dropped, never
// aborting the batch, and a user with zero valid records contributes nothing.
type Normalizer struct {
	window          MorningWindow
	latePunchPolicy string
	location        *time.Location
}

// NewNormalizer creates a normalizer for the configured window, punch policy
// and attendance-group timezone.
func NewNormalizer(cfg config.ReportConfig) *Normalizer {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("WARNING: Unknown timezone %q, falling back to local: %v", cfg.Timezone, err)
		location = time.Local
	}
	return &Normalizer{
		window:          MorningWindow{StartMin: cfg.MorningStartMin, EndMin: cfg.MorningEndMin},
		latePunchPolicy: cfg.LatePunchPolicy,
		location:        location,
	}
}

// Normalize dispatches on whichever upstream shape the payload carries
func (n *Normalizer) Normalize(payload *models.RawAttendancePayload, period models.Period) []models.CheckInRecord {
	if payload == nil {
		return nil
	}
	if payload.Stats != nil {
		return n.NormalizeStats(payload.Stats, period)
	}
	if payload.Tasks != nil {
		return n.NormalizeTasks(payload.Tasks)
	}
	return nil
}

// NormalizeStats handles the monthly-stats shape: per-user day fields whose
// value is a comma-joined punch string. Only the first token counts as the
// morning punch; lateness comes from the embedded Abnormal feature flag
// (LatenessFromUpstream).
func (n *Normalizer) NormalizeStats(payload *models.StatsPayload, period models.Period) []models.CheckInRecord {
	var records []models.CheckInRecord

	for _, user := range payload.UserDatas {
		userName := user.Name
		if userName == "" {
			userName = "unknown"
		}
		department := statsDepartment(user)

		for _, field := range user.Datas {
			if !dateCodePattern.MatchString(field.Code) {
				continue
			}
			// Day fields carry a weekday marker in the title; other
			// date-coded fields are aggregates, not punch days.
			if !strings.Contains(field.Title, "星期") {
				continue
			}
			if !inPeriod(field.Code, period) {
				continue
			}

			record, err := n.statsDayRecord(user.UserID, userName, department, field)
			if err != nil {
				log.Printf("Dropping record for %s on %s: %v", userName, field.Code, err)
				continue
			}
			records = append(records, record)
		}
	}

	return records
}

// statsDayRecord parses one day field into a record
func (n *Normalizer) statsDayRecord(userID, userName, department string, field models.StatsField) (models.CheckInRecord, error) {
	firstToken := strings.SplitN(field.Value, ",", 2)[0]
	match := punchTimePattern.FindStringSubmatch(firstToken)
	if match == nil {
		return models.CheckInRecord{}, fmt.Errorf("no parseable morning punch in %q", field.Value)
	}

	checkInTime := match[1] + ":00"
	totalMinutes, err := utils.ParseClockMinutes(checkInTime)
	if err != nil {
		return models.CheckInRecord{}, err
	}

	isAbnormal := false
	for _, feature := range field.Features {
		if feature.Key == "Abnormal" && feature.Value == "true" {
			isAbnormal = true
			break
		}
	}

	status := models.StatusNormal
	if isAbnormal {
		status = models.StatusAbnormal
	}

	return models.CheckInRecord{
		Date:             field.Code,
		CheckInTime:      checkInTime,
		UserID:           userID,
		UserName:         userName,
		Department:       department,
		Status:           status,
		IsLate:           isAbnormal,
		IsInMorningRange: n.window.Contains(totalMinutes),
		TotalMinutes:     totalMinutes,
	}, nil
}

// NormalizeTasks handles the punch-task shape: per-day records carrying a
// check-in sub-record with a unix timestamp. Lateness comes from the
// upstream result flag (LatenessFromUpstream); which punches qualify is
// decided by the late punch policy.
func (n *Normalizer) NormalizeTasks(payload *models.TaskPayload) []models.CheckInRecord {
	var records []models.CheckInRecord
	seen := make(map[string]bool) // one record per user per day

	for _, result := range payload.UserTaskResults {
		userName := result.EmployeeName
		if userName == "" {
			userName = "unknown"
		}

		for _, task := range result.Records {
			if task.CheckInRecord == nil {
				log.Printf("Dropping task entry for %s on day %d: no check-in record", userName, task.Day)
				continue
			}
			if !n.punchQualifies(task.CheckInRecord.CheckInType) {
				continue
			}

			record, err := n.taskRecord(result.UserID, userName, task)
			if err != nil {
				log.Printf("Dropping task entry for %s on day %d: %v", userName, task.Day, err)
				continue
			}

			key := result.UserID + "_" + record.Date
			if seen[key] {
				continue
			}
			seen[key] = true
			records = append(records, record)
		}
	}

	return records
}

// punchQualifies applies the late punch policy to a punch type
func (n *Normalizer) punchQualifies(checkInType string) bool {
	if n.latePunchPolicy == "any_punch" {
		return true
	}
	return checkInType == "OnDuty" || checkInType == ""
}

// taskRecord parses one punch task entry into a record
func (n *Normalizer) taskRecord(userID, userName string, task models.TaskRecord) (models.CheckInRecord, error) {
	seconds := normalizeUnixSeconds(int64(task.CheckInRecord.CheckTime))
	if seconds <= 0 {
		return models.CheckInRecord{}, fmt.Errorf("unparseable check-in timestamp %d", task.CheckInRecord.CheckTime)
	}

	punchTime := time.Unix(seconds, 0).In(n.location)
	totalMinutes := punchTime.Hour()*60 + punchTime.Minute()
	status := taskStatus(task.CheckInRecord.Result)

	return models.CheckInRecord{
		Date:             utils.FormatDate(punchTime),
		CheckInTime:      punchTime.Format("15:04:05"),
		UserID:           userID,
		UserName:         userName,
		Department:       unknownDepartment,
		Status:           status,
		IsLate:           status == models.StatusLate,
		IsInMorningRange: n.window.Contains(totalMinutes),
		TotalMinutes:     totalMinutes,
	}, nil
}

// normalizeUnixSeconds applies the millisecond heuristic: values beyond the
// ten-digit-seconds threshold are milliseconds and are divided by 1000.
func normalizeUnixSeconds(v int64) int64 {
	if v > millisThreshold {
		return v / 1000
	}
	return v
}

// statsDepartment extracts the department display name by its field code
func statsDepartment(user models.UserStatsData) string {
	for _, field := range user.Datas {
		if field.Code == models.DepartmentFieldCode {
			if field.Value != "" {
				return field.Value
			}
			break
		}
	}
	return unknownDepartment
}

// taskStatus maps an upstream result flag onto the status enum
func taskStatus(result string) models.CheckInStatus {
	switch result {
	case "Normal":
		return models.StatusNormal
	case "Late", "SeriousLate":
		return models.StatusLate
	case "":
		return models.StatusUnknown
	default:
		return models.StatusAbnormal
	}
}

// inPeriod checks a YYYY-MM-DD date against an optional period; ISO dates
// compare correctly as strings.
func inPeriod(date string, period models.Period) bool {
	if period.Start != "" && date < period.Start {
		return false
	}
	if period.End != "" && date > period.End {
		return false
	}
	return true
}
