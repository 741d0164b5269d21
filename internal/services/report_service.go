package services

import (
	"context"
	"errors"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/database"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/utils"
	"log"
	"time"
)

// TokenProvider yields a tenant access token for the upstream API
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// AttendanceSource fetches the raw attendance payload for a user list and
// date range from the upstream API.
type AttendanceSource interface {
	FetchRawRecords(ctx context.Context, userIDs []string, period models.Period) (*models.RawAttendancePayload, error)
}

// ReportSink delivers a finished report somewhere (chat, webhook, email)
type ReportSink interface {
	Name() string
	Send(ctx context.Context, report *models.AttendanceReport) error
}

// ReportService orchestrates the fetch, normalize, aggregate, rank and
// assemble pipeline. Assembly never fails: upstream or auth trouble degrades
// into a fully-shaped report whose Message explains what happened, so the
// scheduled push always has something to deliver.
type ReportService struct {
	cfg        config.ReportConfig
	tokens     TokenProvider
	source     AttendanceSource
	normalizer *Normalizer
	aggregator *AggregationEngine
	ranker     *RankingEngine
	ai         *AIService
	mongo      *database.MongoDBClient
	calendar   *utils.WorkdayCalendar
}

// NewReportService creates a report service. The AI service and MongoDB
// client are optional; nil disables commentary and caching respectively.
func NewReportService(cfg config.ReportConfig, tokens TokenProvider, source AttendanceSource, ai *AIService, mongo *database.MongoDBClient) *ReportService {
	return &ReportService{
		cfg:        cfg,
		tokens:     tokens,
		source:     source,
		normalizer: NewNormalizer(cfg),
		aggregator: NewAggregationEngine(),
		ranker:     NewRankingEngine(cfg),
		ai:         ai,
		mongo:      mongo,
		calendar:   utils.NewWorkdayCalendar(cfg.Holidays, cfg.ExtraWorkdays, cfg.IncludeWeekends),
	}
}

// FetchAndBuildReport runs the full pipeline for one request: cache lookup,
// token pre-flight, upstream fetch, then BuildReport. Auth failures are
// returned to the caller; upstream and transport failures degrade into a
// report carrying an explanatory message.
func (s *ReportService) FetchAndBuildReport(ctx context.Context, req models.GenerateReportRequest) (*models.AttendanceReport, error) {
	userIDs := req.UserIDs
	if len(userIDs) == 0 {
		userIDs = s.cfg.UserIDs
	}
	period := s.requestPeriod(req)

	if s.mongo != nil {
		cacheKey := database.GenerateCacheKey(userIDs, period.Start, period.End, s.cfg.Source)
		if cached, err := s.mongo.GetCachedReport(cacheKey); err != nil {
			log.Printf("WARNING: Cache lookup failed: %v", err)
		} else if cached != nil {
			log.Printf("Returning cached report for %s to %s", period.Start, period.End)
			return cached, nil
		}
	}

	// Pre-flight the token so credential problems surface as auth errors
	// instead of being folded into a degraded report.
	if _, err := s.tokens.GetToken(ctx); err != nil {
		return nil, err
	}

	payload, err := s.source.FetchRawRecords(ctx, userIDs, period)
	if err != nil {
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}

		message := "attendance data is temporarily unavailable"
		var upstreamErr *models.UpstreamError
		if errors.As(err, &upstreamErr) {
			log.Printf("Upstream error fetching attendance data: %v", upstreamErr)
		} else {
			log.Printf("Error fetching attendance data: %v", err)
		}
		report := s.emptyReport(period, message)
		return report, nil
	}

	report := s.BuildReport(payload, period)

	if s.ai != nil && report.Summary != nil && report.Summary.TotalRecords > 0 {
		commentary, err := s.ai.GenerateCommentary(ctx, report)
		if err != nil {
			log.Printf("WARNING: Commentary generation failed: %v", err)
		} else {
			report.AICommentary = commentary
		}
	}

	if s.mongo != nil {
		if err := s.mongo.CacheReport(userIDs, period.Start, period.End, s.cfg.Source, report); err != nil {
			log.Printf("WARNING: Failed to cache report: %v", err)
		}
	}

	return report, nil
}

// BuildReport assembles a report from an already-fetched payload. It always
// returns a fully-shaped report: nil or empty payloads produce the "no data"
// form rather than an error.
func (s *ReportService) BuildReport(payload *models.RawAttendancePayload, period models.Period) *models.AttendanceReport {
	records := s.normalizer.Normalize(payload, period)
	if len(records) == 0 {
		return s.emptyReport(period, "no data found")
	}

	resolved := resolvePeriod(records, period)
	rankings := s.ranker.Rank(records)

	// RankingData carries every normalized record, not just the morning
	// window: the summary counters are one scan of this list, so
	// TotalRecords always equals its length. The window is applied
	// downstream, inside the ranking views and the card.
	report := &models.AttendanceReport{
		Title:           s.cfg.Title,
		Period:          resolved,
		DepartmentStats: s.aggregator.Aggregate(records),
		RankingData:     records,
		TopRanking:      s.ranker.TopN(rankings),
		BottomRanking:   s.ranker.BottomN(rankings),
		LateRanking:     s.ranker.LateRanking(rankings),
		Summary:         s.summarize(records, resolved),
		GeneratedAt:     time.Now().Format(time.RFC3339),
	}
	return report
}

// emptyReport builds the degraded/no-data form: all containers present and
// empty, counters zero, Message set.
func (s *ReportService) emptyReport(period models.Period, message string) *models.AttendanceReport {
	return &models.AttendanceReport{
		Title:           s.cfg.Title,
		Period:          period,
		DepartmentStats: map[string]*models.DepartmentStats{},
		RankingData:     []models.CheckInRecord{},
		Summary:         &models.ReportSummary{},
		Message:         message,
		GeneratedAt:     time.Now().Format(time.RFC3339),
	}
}

// summarize computes the flat counters over all normalized records
func (s *ReportService) summarize(records []models.CheckInRecord, period models.Period) *models.ReportSummary {
	summary := &models.ReportSummary{TotalRecords: len(records)}

	distinctDates := make(map[string]bool)
	for _, record := range records {
		distinctDates[record.Date] = true
		if record.IsLate {
			summary.TotalLate++
		} else {
			summary.TotalOnTime++
		}
		if record.IsInMorningRange {
			summary.TotalInMorningRange++
		}
	}

	switch s.cfg.TotalDaysMode {
	case "workweek":
		summary.TotalDays = s.workweekDays(period)
		if summary.TotalDays == 0 {
			summary.TotalDays = len(distinctDates)
		}
	default:
		summary.TotalDays = len(distinctDates)
	}

	return summary
}

// workweekDays counts the calendar workdays covered by the period
func (s *ReportService) workweekDays(period models.Period) int {
	start, err := utils.ParseDate(period.Start)
	if err != nil {
		return 0
	}
	end, err := utils.ParseDate(period.End)
	if err != nil {
		return 0
	}
	return len(s.calendar.WorkdaysBetween(start, end))
}

// requestPeriod resolves the period for a request. Both bounds absent means
// last week's Monday-Sunday; a single bound is extended to the configured
// date-range length.
func (s *ReportService) requestPeriod(req models.GenerateReportRequest) models.Period {
	if req.StartDate != "" && req.EndDate != "" {
		return models.Period{Start: req.StartDate, End: req.EndDate}
	}

	rangeDays := s.cfg.DateRangeDays
	if rangeDays <= 0 {
		rangeDays = 7
	}

	if req.StartDate != "" {
		if start, err := utils.ParseDate(req.StartDate); err == nil {
			return models.Period{Start: req.StartDate, End: utils.FormatDate(start.AddDate(0, 0, rangeDays-1))}
		}
		return models.Period{Start: req.StartDate, End: req.StartDate}
	}
	if req.EndDate != "" {
		if end, err := utils.ParseDate(req.EndDate); err == nil {
			return models.Period{Start: utils.FormatDate(end.AddDate(0, 0, -(rangeDays - 1))), End: req.EndDate}
		}
		return models.Period{Start: req.EndDate, End: req.EndDate}
	}

	monday, sunday := utils.LastWeekRange(time.Now())
	return models.Period{Start: utils.FormatDate(monday), End: utils.FormatDate(sunday)}
}

// resolvePeriod fills missing period bounds from the min/max record dates.
// With no records and no requested bounds the caller already produced the
// no-data form, so this only runs against a non-empty record set.
func resolvePeriod(records []models.CheckInRecord, requested models.Period) models.Period {
	resolved := requested
	if resolved.Start != "" && resolved.End != "" {
		return resolved
	}

	min, max := "", ""
	for _, record := range records {
		if min == "" || record.Date < min {
			min = record.Date
		}
		if max == "" || record.Date > max {
			max = record.Date
		}
	}
	if resolved.Start == "" {
		resolved.Start = min
	}
	if resolved.End == "" {
		resolved.End = max
	}
	return resolved
}
