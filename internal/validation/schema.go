package validation

import (
	_ "embed"
	"encoding/json"
	"feishu-attendance-report/internal/models"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed report_schema.json
var reportSchemaJSON []byte

// ReportValidator checks outbound reports against the report JSON schema
// before delivery, so a shape regression is caught here instead of as a
// garbled chat message.
type ReportValidator struct {
	schema *gojsonschema.Schema
}

// NewReportValidator compiles the embedded report schema
func NewReportValidator() (*ReportValidator, error) {
	schemaLoader := gojsonschema.NewBytesLoader(reportSchemaJSON)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile report schema: %w", err)
	}
	return &ReportValidator{schema: schema}, nil
}

// Validate checks a report against the schema
func (v *ReportValidator) Validate(report *models.AttendanceReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks raw report JSON against the schema
func (v *ReportValidator) ValidateJSON(data []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := v.schema.Validate(documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}
