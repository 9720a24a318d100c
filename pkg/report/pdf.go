// Package report renders an evaluator.Report as a printable PDF scorecard,
// one row per metric plus an overall-score summary row.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/ll-scheduler-kernel/internal/evaluator"
)

// PDFRenderer renders an evaluator.Report into a tabular PDF scorecard.
type PDFRenderer struct{}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var metricOrder = []struct {
	label string
	get   func(evaluator.Report) evaluator.MetricReport
}{
	{"Weekly Requirements", func(r evaluator.Report) evaluator.MetricReport { return r.WeeklyRequirements }},
	{"Home/Away Balance", func(r evaluator.Report) evaluator.MetricReport { return r.HomeAwayBalance }},
	{"Constraint Violations", func(r evaluator.Report) evaluator.MetricReport { return r.ConstraintViolations }},
	{"Game Day Preferences", func(r evaluator.Report) evaluator.MetricReport { return r.GameDayPreferences }},
	{"Game Spacing", func(r evaluator.Report) evaluator.MetricReport { return r.GameSpacing }},
	{"Practice Spacing", func(r evaluator.Report) evaluator.MetricReport { return r.PracticeSpacing }},
	{"Matchup Balance", func(r evaluator.Report) evaluator.MetricReport { return r.MatchupBalance }},
	{"Matchup Spacing", func(r evaluator.Report) evaluator.MetricReport { return r.MatchupSpacing }},
	{"Game Slot Efficiency", func(r evaluator.Report) evaluator.MetricReport { return r.GameSlotEfficiency }},
	{"Weekly Games Distribution", func(r evaluator.Report) evaluator.MetricReport { return r.WeeklyGamesDistribution }},
}

// Render produces a PDF document summarizing rpt, titled title.
func (p *PDFRenderer) Render(rpt evaluator.Report, title string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{70, 25, 95}
	for i, header := range []string{"Metric", "Passed", "Summary"} {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, m := range metricOrder {
		metric := m.get(rpt)
		pdf.CellFormat(widths[0], 7, m.label, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, passLabel(metric.Passed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, truncate(metric.Summary, 60), "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.Ln(3)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall score: %d / 100", rpt.OverallScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at %s", rpt.Timestamp), "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
