package services

import (
	"context"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/validation"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the report pipeline on a cron schedule and fans the result
// out to the configured sinks. A sink failure is logged and never stops the
// remaining sinks.
type Scheduler struct {
	cfg           config.SchedulerConfig
	reportService *ReportService
	validator     *validation.ReportValidator
	sinks         []ReportSink
	cron          *cron.Cron
}

// NewScheduler creates a scheduler over the given sinks. The cron runs with
// seconds precision, matching the configured six-field schedule.
func NewScheduler(cfg config.SchedulerConfig, reportService *ReportService, validator *validation.ReportValidator, sinks []ReportSink) *Scheduler {
	return &Scheduler{
		cfg:           cfg,
		reportService: reportService,
		validator:     validator,
		sinks:         sinks,
		cron:          cron.New(cron.WithSeconds()),
	}
}

// Start registers the schedule and starts the cron loop
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		log.Println("Scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("ERROR: Scheduled report run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	log.Printf("Scheduler started with schedule %q", s.cfg.Schedule)
	return nil
}

// Stop stops the cron loop
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// RunOnce executes one full pipeline run: build the report for the default
// period and deliver it to every sink. Delivery failures are collected; the
// run fails only when no sink succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	log.Println("Starting scheduled report run")

	report, err := s.reportService.FetchAndBuildReport(ctx, models.GenerateReportRequest{})
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	if s.validator != nil {
		if err := s.validator.Validate(report); err != nil {
			log.Printf("WARNING: Report failed outbound validation: %v", err)
		}
	}

	return s.Deliver(ctx, report)
}

// Deliver sends a report to every sink, logging per-sink outcomes
func (s *Scheduler) Deliver(ctx context.Context, report *models.AttendanceReport) error {
	if len(s.sinks) == 0 {
		return fmt.Errorf("no report sinks configured")
	}

	delivered := 0
	var lastErr error
	for _, sink := range s.sinks {
		if err := sink.Send(ctx, report); err != nil {
			log.Printf("ERROR: Delivery to %s failed: %v", sink.Name(), err)
			lastErr = err
			continue
		}
		log.Printf("Report delivered via %s", sink.Name())
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("all deliveries failed: %w", lastErr)
	}
	return nil
}
