package feishu

import (
	"feishu-attendance-report/internal/models"
	"fmt"
	"strings"
	"time"
)

// BuildCard renders an attendance report as a Feishu interactive card.
// The card stays well-formed for degraded reports: an empty ranking shows a
// no-data note instead of empty tables.
func BuildCard(report *models.AttendanceReport) map[string]interface{} {
	elements := []interface{}{
		map[string]interface{}{
			"tag": "div",
			"text": map[string]interface{}{
				"tag":     "lark_md",
				"content": fmt.Sprintf("**Period**: %s to %s", report.Period.Start, report.Period.End),
			},
		},
		map[string]interface{}{"tag": "hr"},
	}

	if report.Message != "" {
		elements = append(elements, noteElement(report.Message))
	}

	elements = append(elements, rankingElements(report)...)

	if report.AICommentary != "" {
		elements = append(elements,
			map[string]interface{}{"tag": "hr"},
			map[string]interface{}{
				"tag": "div",
				"text": map[string]interface{}{
					"tag":     "lark_md",
					"content": report.AICommentary,
				},
			},
		)
	}

	elements = append(elements, map[string]interface{}{
		"tag": "note",
		"elements": []interface{}{
			map[string]interface{}{
				"tag":     "plain_text",
				"content": "Generated at " + time.Now().Format("2006-01-02 15:04:05"),
			},
		},
	})

	return map[string]interface{}{
		"config": map[string]interface{}{"wide_screen_mode": true},
		"header": map[string]interface{}{
			"title":    map[string]interface{}{"tag": "plain_text", "content": report.Title},
			"template": "blue",
		},
		"elements": elements,
	}
}

// rankingElements builds the early-bird table, the late-count table, and the
// late-person list from the report's precomputed rankings.
func rankingElements(report *models.AttendanceReport) []interface{} {
	if len(report.TopRanking) == 0 && len(report.BottomRanking) == 0 {
		return []interface{}{noteElement("No morning check-in ranking data (06:30-08:30)")}
	}

	var elements []interface{}

	if len(report.TopRanking) > 0 {
		elements = append(elements, noteElement("Early-bird ranking"))
		elements = append(elements, rankingTable(report.TopRanking))
	}

	if len(report.BottomRanking) > 0 {
		elements = append(elements,
			map[string]interface{}{"tag": "hr"},
			noteElement("Latest risers"),
			rankingTable(report.BottomRanking),
		)
	}

	if len(report.LateRanking) > 0 && report.LateRanking[0].LateCount > 0 {
		elements = append(elements,
			map[string]interface{}{"tag": "hr"},
			noteElement("Late-count ranking"),
			lateTable(report.LateRanking),
			lateList(report.LateRanking),
		)
	}

	return elements
}

func rankingTable(rankings []models.UserRanking) map[string]interface{} {
	rows := make([]interface{}, 0, len(rankings))
	for i, user := range rankings {
		rows = append(rows, map[string]interface{}{
			"rank":       i + 1,
			"name":       user.UserName,
			"avg_time":   user.AvgCheckInTime,
			"department": user.Department,
			"days":       user.CheckInCount,
		})
	}

	return map[string]interface{}{
		"tag": "table",
		"columns": []interface{}{
			numberColumn("rank", "Rank"),
			textColumn("name", "Name"),
			textColumn("avg_time", "Avg check-in"),
			textColumn("department", "Department"),
			numberColumn("days", "Days"),
		},
		"rows":       rows,
		"row_height": "low",
		"page_size":  10,
	}
}

func lateTable(rankings []models.UserRanking) map[string]interface{} {
	rows := make([]interface{}, 0, len(rankings))
	for i, user := range rankings {
		if user.LateCount == 0 {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"rank":       i + 1,
			"name":       user.UserName,
			"department": user.Department,
			"late_count": user.LateCount,
		})
	}

	return map[string]interface{}{
		"tag": "table",
		"columns": []interface{}{
			numberColumn("rank", "Rank"),
			textColumn("name", "Name"),
			textColumn("department", "Department"),
			numberColumn("late_count", "Late count"),
		},
		"rows":       rows,
		"row_height": "low",
		"page_size":  5,
	}
}

// lateList renders the late-person markdown list with per-user late dates
func lateList(rankings []models.UserRanking) map[string]interface{} {
	var sb strings.Builder
	sb.WriteString("**Late list (by late count)**\n")
	sb.WriteString("| # | Name | Department | Late count | Late dates |\n")
	sb.WriteString("| --- | --- | --- | --- | --- |\n")

	n := 0
	for _, user := range rankings {
		if user.LateCount == 0 {
			continue
		}
		n++
		dates := "none recorded"
		if len(user.LateDates) > 0 {
			dates = strings.Join(user.LateDates, ", ")
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s |\n", n, user.UserName, user.Department, user.LateCount, dates))
	}

	return map[string]interface{}{
		"tag": "div",
		"text": map[string]interface{}{
			"tag":     "lark_md",
			"content": sb.String(),
		},
	}
}

// BuildText renders the report as a plain-text message for USE_CARD=false
func BuildText(report *models.AttendanceReport) string {
	var sb strings.Builder
	sb.WriteString(report.Title + "\n")
	sb.WriteString(fmt.Sprintf("Period: %s to %s\n\n", report.Period.Start, report.Period.End))

	if report.Message != "" {
		sb.WriteString(report.Message + "\n")
		return sb.String()
	}

	sb.WriteString("Department stats:\n")
	for _, dept := range report.DepartmentStats {
		sb.WriteString(fmt.Sprintf("%s:\n  on time: %d\n  late: %d\n", dept.DepartmentName, dept.TotalOnTimeCount, dept.TotalLateCount))
	}

	if len(report.TopRanking) > 0 {
		sb.WriteString("\nEarly-bird ranking:\n")
		for i, user := range report.TopRanking {
			sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, user.UserName, user.AvgCheckInTime))
		}
	}

	return sb.String()
}

func noteElement(content string) map[string]interface{} {
	return map[string]interface{}{
		"tag": "note",
		"elements": []interface{}{
			map[string]interface{}{"tag": "plain_text", "content": content},
		},
	}
}

func textColumn(name, displayName string) map[string]interface{} {
	return map[string]interface{}{
		"data_type":    "text",
		"name":         name,
		"display_name": displayName,
		"width":        "auto",
	}
}

func numberColumn(name, displayName string) map[string]interface{} {
	return map[string]interface{}{
		"data_type":    "number",
		"name":         name,
		"display_name": displayName,
		"width":        "auto",
		"format":       map[string]interface{}{"precision": 0},
	}
}
