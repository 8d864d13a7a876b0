package report

import (
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

// WritePDF renders the report as a single-column A4 PDF for archival. Same
// content as the text rendering; layout only.
func WritePDF(r Report, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(banner, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, banner, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Alerts", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, a := range r.Alerts {
		pdf.MultiCell(0, 4.5, a.String(), "", "L", false)
	}

	writePDFList(pdf, "New UID=0 accounts", r.Diff.UID0Added)
	writePDFList(pdf, "New SUID binaries", r.Diff.SUIDAdded)
	writePDFList(pdf, "Removed SUID binaries", r.Diff.SUIDRemoved)
	writePDFList(pdf, "New sudoers.d files", r.Diff.SudoersDAdded)
	writePDFList(pdf, "Removed sudoers.d files", r.Diff.SudoersDRemoved)
	writePDFList(pdf, "New enabled service entries", r.Diff.EnabledServicesAdded)
	writePDFList(pdf, "Removed enabled service entries", r.Diff.EnabledServicesRemoved)

	if degraded := degradedCategories(r); len(degraded) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Collection warnings", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, line := range degraded {
			pdf.MultiCell(0, 4.5, line, "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writePDFList(pdf *gofpdf.Fpdf, title string, items []string) {
	if len(items) == 0 {
		return
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.MultiCell(0, 4.5, "- "+item, "", "L", false)
	}
}
