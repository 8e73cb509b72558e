// Package reporting renders compliance reports for download. JSON is the
// canonical form; CSV and PDF are operator-facing exports.
package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Klerno-Labs/iso20022-engine/internal/compliance"
)

// Format is a supported export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Export renders the report in the requested format.
func Export(report compliance.Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(report, "", "  ")
	case FormatCSV:
		return exportCSV(report)
	case FormatPDF:
		return exportPDF(report)
	default:
		return nil, fmt.Errorf("reporting: unknown format %q", format)
	}
}

func exportCSV(report compliance.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric", "value"},
		{"compliant", strconv.FormatBool(report.Compliant)},
		{"score", strconv.FormatFloat(report.Score, 'f', 2, 64)},
		{"total_messages", strconv.Itoa(report.Details.TotalMessages)},
		{"valid_messages", strconv.Itoa(report.Details.ValidMessages)},
		{"invalid_messages", strconv.Itoa(report.Details.InvalidMessages)},
		{"total_field_errors", strconv.Itoa(report.Details.TotalFieldErrors)},
		{"generated_at", report.Details.GeneratedAt.Format(time.RFC3339)},
	}
	for _, mt := range sortedTypes(report.Details.ByMessageType) {
		rows = append(rows, []string{"messages_" + mt, strconv.Itoa(report.Details.ByMessageType[mt])})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("reporting: write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func exportPDF(report compliance.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "ISO 20022 Compliance Report")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	status := "NON-COMPLIANT"
	if report.Compliant {
		status = "COMPLIANT"
	}
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(60, 7, label)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 7, value)
		pdf.Ln(7)
	}
	line("Status", status)
	line("Score", fmt.Sprintf("%.2f", report.Score))
	line("Messages processed", strconv.Itoa(report.Details.TotalMessages))
	line("Valid", strconv.Itoa(report.Details.ValidMessages))
	line("Invalid", strconv.Itoa(report.Details.InvalidMessages))
	line("Field errors", strconv.Itoa(report.Details.TotalFieldErrors))
	line("Generated", report.Details.GeneratedAt.Format(time.RFC3339))

	if len(report.Details.ByMessageType) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "By message family")
		pdf.Ln(9)
		for _, mt := range sortedTypes(report.Details.ByMessageType) {
			line(mt, strconv.Itoa(report.Details.ByMessageType[mt]))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("reporting: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedTypes(byType map[string]int) []string {
	keys := make([]string, 0, len(byType))
	for k := range byType {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
