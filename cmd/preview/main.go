package main

import (
	"encoding/json"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/feishu"
	"feishu-attendance-report/internal/models"
	"feishu-attendance-report/internal/services"
	"flag"
	"fmt"
	"log"
	"os"
)

// Preview tool: builds a report from a saved upstream payload and prints the
// rendered card or text, without touching the Feishu API. Useful for checking
// card layout changes against captured responses.
func main() {
	payloadPath := flag.String("payload", "", "path to a saved raw attendance payload (JSON)")
	start := flag.String("start", "", "period start (YYYY-MM-DD)")
	end := flag.String("end", "", "period end (YYYY-MM-DD)")
	asText := flag.Bool("text", false, "render plain text instead of the card")
	flag.Parse()

	if *payloadPath == "" {
		log.Fatal("usage: preview -payload <file.json> [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-text]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// Credentials are irrelevant for a local preview; fall back to the
		// report defaults when the full config does not validate.
		log.Printf("Config not fully valid (%v), using report defaults", err)
		cfg = &config.Config{}
		cfg.Report.Title = "Attendance Report"
		cfg.Report.MorningStartMin = 390
		cfg.Report.MorningEndMin = 510
		cfg.Report.LateThresholdMin = 480
		cfg.Report.RankingLimit = 5
		cfg.Report.LatePunchPolicy = "on_duty_only"
		cfg.Report.TotalDaysMode = "distinct"
		cfg.Report.Timezone = "Asia/Shanghai"
	}

	data, err := os.ReadFile(*payloadPath)
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}
	var payload models.RawAttendancePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Fatalf("Failed to parse payload: %v", err)
	}

	reportService := services.NewReportService(cfg.Report, nil, nil, nil, nil)
	report := reportService.BuildReport(&payload, models.Period{Start: *start, End: *end})

	if *asText {
		fmt.Println(feishu.BuildText(report))
		return
	}

	card, err := json.MarshalIndent(feishu.BuildCard(report), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode card: %v", err)
	}
	fmt.Println(string(card))
}
