// Package export writes ranked leads to JSON, CSV, and XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", eris.Errorf("export: unsupported format %q", s)
}

// columns defines the ordered flat-file output columns.
var columns = []string{
	"id",
	"company_name",
	"industry",
	"website",
	"location",
	"employee_count",
	"overall_score",
	"fit_score",
	"intent_score",
	"timing_score",
	"buying_signals",
	"status",
	"created_at",
}

// Write encodes leads to path in the given format.
func Write(leads []*model.Lead, format Format, path string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(leads, path)
	case FormatCSV:
		return WriteCSV(leads, path)
	case FormatXLSX:
		return WriteXLSX(leads, path)
	}
	return eris.Errorf("export: unsupported format %q", format)
}

// WriteJSON writes leads as an indented JSON array.
func WriteJSON(leads []*model.Lead, path string) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal leads")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write file")
	}
	return nil
}

// WriteCSV writes one row per lead with a header row.
func WriteCSV(leads []*model.Lead, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range leads {
		if err := w.Write(buildRow(lead)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	return nil
}

// WriteXLSX writes leads to a single-sheet workbook with the same columns as
// the CSV output.
func WriteXLSX(leads []*model.Lead, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().Value = col
	}
	for _, lead := range leads {
		row := sheet.AddRow()
		for _, cell := range buildRow(lead) {
			row.AddCell().Value = cell
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

// buildRow maps a lead to one flat-file row.
func buildRow(lead *model.Lead) []string {
	var overall, fit, intent, timing string
	if s := lead.Score; s != nil {
		overall = formatScore(s.OverallScore)
		fit = formatScore(s.FitScore)
		intent = formatScore(s.IntentScore)
		timing = formatScore(s.TimingScore)
	}

	signals := make([]string, 0, len(lead.BuyingSignals))
	for _, s := range lead.BuyingSignals {
		signals = append(signals, string(s))
	}

	employees := ""
	if lead.Company.EmployeeCount > 0 {
		employees = fmt.Sprintf("%d", lead.Company.EmployeeCount)
	}

	return []string{
		lead.ID,
		lead.Company.Name,
		string(lead.Company.Industry),
		lead.Company.Website,
		lead.Company.Location,
		employees,
		overall,
		fit,
		intent,
		timing,
		strings.Join(signals, "; "),
		string(lead.Status),
		lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
