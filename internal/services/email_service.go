package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService delivers the report by email via SendGrid, with the PDF
// rendering attached. It implements ReportSink.
type EmailService struct {
	fromEmail string
	toEmails  []string
	client    *sendgrid.Client
	pdf       *PDFService
}

// NewEmailService creates an email sink, or nil when not configured
func NewEmailService(cfg config.EmailConfig) *EmailService {
	if cfg.APIKey == "" || len(cfg.ToEmails) == 0 {
		return nil
	}
	return &EmailService{
		fromEmail: cfg.FromEmail,
		toEmails:  cfg.ToEmails,
		client:    sendgrid.NewSendClient(cfg.APIKey),
		pdf:       NewPDFService(),
	}
}

// Name identifies this sink in delivery logs
func (s *EmailService) Name() string {
	return "email"
}

// Send emails the report to every configured recipient. One failed recipient
// fails the delivery; the PDF attachment is best effort.
func (s *EmailService) Send(ctx context.Context, report *models.AttendanceReport) error {
	pdfData, err := s.pdf.GenerateReportPDF(report)
	if err != nil {
		log.Printf("WARNING: PDF generation failed, sending without attachment: %v", err)
		pdfData = nil
	}

	for _, toEmail := range s.toEmails {
		if err := s.sendTo(toEmail, report, pdfData); err != nil {
			return &models.DeliveryError{Target: "email:" + toEmail, Err: err}
		}
		log.Printf("Report emailed to %s", toEmail)
	}
	return nil
}

func (s *EmailService) sendTo(toEmail string, report *models.AttendanceReport, pdfData []byte) error {
	from := mail.NewEmail("Attendance Bot", s.fromEmail)
	to := mail.NewEmail("", toEmail)
	subject := fmt.Sprintf("%s (%s to %s)", report.Title, report.Period.Start, report.Period.End)

	htmlContent := s.buildReportEmailHTML(report)
	plainTextContent := s.buildReportEmailText(report)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	if len(pdfData) > 0 {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(pdfData))
		attachment.SetType("application/pdf")
		attachment.SetFilename(fmt.Sprintf("attendance-report-%s.pdf", report.Period.Start))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// buildReportEmailHTML builds the HTML body
func (s *EmailService) buildReportEmailHTML(report *models.AttendanceReport) string {
	var html bytes.Buffer

	html.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0066cc; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background-color: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        .summary-box { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; border-left: 4px solid #0066cc; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="header">
        <h1 style="margin: 0;">` + report.Title + `</h1>
    </div>
    <div class="content">
        <p>Hello,</p>
        <p>The attendance report for <strong>` + report.Period.Start + `</strong> to <strong>` + report.Period.End + `</strong> is ready.</p>`)

	if report.Message != "" {
		html.WriteString(`
        <div class="summary-box">
            <p>` + report.Message + `</p>
        </div>`)
	} else if report.Summary != nil {
		html.WriteString(fmt.Sprintf(`
        <div class="summary-box">
            <h3 style="margin-top: 0; color: #0066cc;">Summary</h3>
            <p>%d check-in records over %d days: %d on time, %d late.</p>
        </div>`, report.Summary.TotalRecords, report.Summary.TotalDays, report.Summary.TotalOnTime, report.Summary.TotalLate))
	}

	html.WriteString(`
        <p>The complete report is attached as a PDF document.</p>
    </div>
    <div class="footer">
        <p>This is an automated email. Please do not reply.</p>
        <p>Generated on ` + report.GeneratedAt + `</p>
    </div>
</body>
</html>`)

	return html.String()
}

// buildReportEmailText builds the plain text body
func (s *EmailService) buildReportEmailText(report *models.AttendanceReport) string {
	var text bytes.Buffer

	text.WriteString(fmt.Sprintf("%s\n%s to %s\n\n", report.Title, report.Period.Start, report.Period.End))
	if report.Message != "" {
		text.WriteString(report.Message + "\n\n")
	} else if report.Summary != nil {
		text.WriteString(fmt.Sprintf("%d check-in records over %d days: %d on time, %d late.\n\n",
			report.Summary.TotalRecords, report.Summary.TotalDays, report.Summary.TotalOnTime, report.Summary.TotalLate))
	}
	text.WriteString("The complete report is attached as a PDF document.\n")
	return text.String()
}
