package services

import (
	"bytes"
	"feishu-attendance-report/internal/models"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService renders an attendance report as a PDF for the email attachment
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// GenerateReportPDF generates a PDF from an attendance report
func (s *PDFService) GenerateReportPDF(report *models.AttendanceReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("invalid report data")
	}

	// A4 portrait
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.SetX(15)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 15, report.Title, "", 0, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s to %s", report.Period.Start, report.Period.End), "", 0, "C", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", report.GeneratedAt), "", 0, "C", false, 0, "")
	pdf.Ln(10)

	if report.Message != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.SetTextColor(33, 37, 41)
		pdf.MultiCell(0, 7, report.Message, "", "L", false)
		pdf.Ln(5)
	}

	if report.Summary != nil {
		s.addSummary(pdf, report.Summary)
	}
	if len(report.TopRanking) > 0 {
		s.addRankingTable(pdf, "Earliest Risers", report.TopRanking)
	}
	if len(report.BottomRanking) > 0 {
		s.addRankingTable(pdf, "Latest Risers", report.BottomRanking)
	}
	s.addDepartmentTable(pdf, report.DepartmentStats)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// addHeader adds a section header with a blue underline
func (s *PDFService) addHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, title, "", 0, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 102, 204)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)
}

// addSummary adds the flat counters section
func (s *PDFService) addSummary(pdf *gofpdf.Fpdf, summary *models.ReportSummary) {
	s.addHeader(pdf, "Summary")

	rows := [][2]string{
		{"Days covered", fmt.Sprintf("%d", summary.TotalDays)},
		{"Check-in records", fmt.Sprintf("%d", summary.TotalRecords)},
		{"On time", fmt.Sprintf("%d", summary.TotalOnTime)},
		{"Late", fmt.Sprintf("%d", summary.TotalLate)},
		{"Within morning window", fmt.Sprintf("%d", summary.TotalInMorningRange)},
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	for _, row := range rows {
		pdf.CellFormat(90, 7, row[0], "B", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, row[1], "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// addRankingTable adds one ranking section as a table
func (s *PDFService) addRankingTable(pdf *gofpdf.Fpdf, title string, rankings []models.UserRanking) {
	s.addHeader(pdf, title)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(248, 249, 250)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(58, 8, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(58, 8, "Department", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 8, "Avg", "1", 0, "C", true, 0, "")
	pdf.CellFormat(26, 8, "Days", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, entry := range rankings {
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(58, 7, entry.UserName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(58, 7, entry.Department, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 7, entry.AvgCheckInTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 7, fmt.Sprintf("%d", entry.CheckInCount), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

// addDepartmentTable adds the per-department rollup in stable name order
func (s *PDFService) addDepartmentTable(pdf *gofpdf.Fpdf, stats map[string]*models.DepartmentStats) {
	if len(stats) == 0 {
		return
	}
	s.addHeader(pdf, "Departments")

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(248, 249, 250)
	pdf.CellFormat(100, 8, "Department", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "On time", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Late", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, name := range names {
		dept := stats[name]
		pdf.CellFormat(100, 7, dept.DepartmentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", dept.TotalOnTimeCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", dept.TotalLateCount), "1", 1, "C", false, 0, "")
	}
}
