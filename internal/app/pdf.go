package app

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/checkhtml/internal/audit"
)

// writeSummaryPDF renders a one-page overview of the run: totals, failure
// kinds and the configured probes.
func writeSummaryPDF(outPath string, meta manifestMeta, labels []string, s *audit.Summary) error {
	return buildSummaryPDF(meta, labels, s).OutputFileAndClose(outPath)
}

// buildSummaryPDF lays out the summary page. The core fonts are cp1252:
// text is translated to it, and characters outside it print as '.'.
func buildSummaryPDF(meta manifestMeta, labels []string, s *audit.Summary) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("check-html run summary", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "check-html run summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+meta.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")+"  version "+tr(meta.Version), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(k, v string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(70, 7, tr(k), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(v), "1", 1, "L", false, 0, "")
	}
	row("Files", strconv.Itoa(s.Files))
	row("Transformed", strconv.Itoa(s.Succeeded))
	row("Transform failures", fmt.Sprintf("%d (%.1f%%)", s.Failed, 100*s.FailureRate()))
	row("Unreadable", strconv.Itoa(s.Unreadable))
	row("Redirects", strconv.Itoa(s.Redirects))
	row("Original bytes", strconv.FormatInt(s.OriginalBytes, 10))
	row("Processed bytes", strconv.FormatInt(s.ProcessedBytes, 10))
	row("Fallback language", meta.FallbackLang)

	if kinds := s.Kinds(); len(kinds) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Failures by kind", "", 1, "L", false, 0, "")
		for _, k := range kinds {
			row(k, strconv.Itoa(s.FailureKinds[k]))
		}
	}

	if len(labels) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Selector columns", "", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 10)
		for _, l := range labels {
			pdf.MultiCell(0, 5, tr(l), "", "L", false)
		}
	}

	return pdf
}
