/*
report.go - PDF expense report generation

PURPOSE:
  Renders one expense as a fixed-layout PDF: document title, centered
  heading with the mission owner's full name, centered subheading with the
  mission label, a 4-column table (Date, Expense type, Amount, VAT) with one
  row per line in stored order, and a rule + caption footer.

TWO-STEP DESIGN:
  buildLayout assembles the document content as plain strings, pure and
  unit-testable without decoding PDF bytes. The document type then appends
  the sections (heading, table, footer) onto an fpdf document and streams
  the result. Values use their default textual forms: dates as YYYY-MM-DD,
  amounts via decimal String(). No currency or locale handling.

FAILURE MODE:
  Export resolves the expense BEFORE creating the document, so a missing
  expense propagates not-found with zero bytes written. Any fpdf or writer
  fault afterwards is fatal for the request; there is no partial output
  recovery.

SEE ALSO:
  - api/handlers_expense.go: Content-Disposition and status mapping
*/
package expense

import (
	"context"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
)

// ReportFileName is the attachment name of the exported document.
const ReportFileName = "NoteDeFrais.pdf"

// =============================================================================
// LAYOUT - Pure content assembly
// =============================================================================

// reportLayout is the full textual content of a report, in render order.
type reportLayout struct {
	Title         string
	Heading       string
	Subheading    string
	Columns       [4]string
	Rows          [][4]string
	FooterCaption string
}

func buildLayout(data ReportData) reportLayout {
	rows := make([][4]string, len(data.Lines))
	for i, l := range data.Lines {
		rows[i] = [4]string{l.Date.String(), l.Type, l.Amount.String(), l.Tax.String()}
	}
	return reportLayout{
		Title:         "NoteDeFrais",
		Heading:       "Expense report of " + data.OwnerName,
		Subheading:    "Mission: " + data.MissionLabel,
		Columns:       [4]string{"Date", "Expense type", "Amount", "VAT"},
		Rows:          rows,
		FooterCaption: "Mission management software",
	}
}

// =============================================================================
// DOCUMENT - Section-by-section fpdf rendering
// =============================================================================

type reportDocument struct {
	pdf *fpdf.Fpdf
}

func newReportDocument(title string) *reportDocument {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()
	return &reportDocument{pdf: pdf}
}

func (d *reportDocument) addHeading(layout reportLayout) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetTextColor(0, 51, 80)
	d.pdf.CellFormat(0, 10, layout.Heading, "", 1, "C", false, 0, "")
	d.pdf.Ln(4)

	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 10, layout.Subheading, "", 1, "C", false, 0, "")
	d.pdf.Ln(6)
}

func (d *reportDocument) addTable(layout reportLayout) {
	widths := [4]float64{35, 69, 35, 35}

	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.SetFillColor(158, 217, 112)
	d.pdf.SetDrawColor(0, 0, 0)
	for i, title := range layout.Columns {
		d.pdf.CellFormat(widths[i], 8, title, "B", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.SetFillColor(235, 236, 235)
	for _, row := range layout.Rows {
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], 8, cell, "B", 0, "L", true, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *reportDocument) addFooter(layout reportLayout) {
	pageW, pageH := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()

	d.pdf.SetLineWidth(0.4)
	d.pdf.Line(left, pageH-30, pageW-right, pageH-30)

	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.SetXY(left, pageH-26)
	d.pdf.CellFormat(0, 8, layout.FooterCaption, "", 0, "L", false, 0, "")
}

func (d *reportDocument) writeTo(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// =============================================================================
// GENERATOR
// =============================================================================

// ReportGenerator renders expense reports.
type ReportGenerator struct{}

// NewReportGenerator creates a report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// Render writes the PDF report for the given data to w.
func (g *ReportGenerator) Render(data ReportData, w io.Writer) error {
	layout := buildLayout(data)

	doc := newReportDocument(layout.Title)
	doc.addHeading(layout)
	doc.addTable(layout)
	doc.addFooter(layout)

	return doc.writeTo(w)
}

// Export renders the report for the given expense id to w. A missing
// expense returns not-found before any byte is written.
func (s *Service) Export(ctx context.Context, id string, w io.Writer) error {
	data, err := s.store.GetReportData(ctx, id)
	if err != nil {
		return err
	}
	return s.report.Render(*data, w)
}
