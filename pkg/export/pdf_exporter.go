package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfTableWidth = 277.0

// PDFExporter lays a Dataset out as a landscape A4 table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return "pdf" }

// Render prints the title on the first page and repeats the column headings
// on every page.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)

	colWidth := pdfTableWidth / float64(len(data.Columns))
	pdf.SetHeaderFunc(func() {
		if data.Title != "" && pdf.PageNo() == 1 {
			pdf.SetFont("Arial", "B", 13)
			pdf.CellFormat(0, 9, data.Title, "", 1, "C", false, 0, "")
			pdf.Ln(3)
		}
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range data.Columns {
			pdf.CellFormat(colWidth, 7, col.heading(), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	})
	pdf.AddPage()

	for _, row := range data.Rows {
		for i, cell := range row {
			align := "L"
			if data.Columns[i].Numeric {
				align = "R"
			}
			pdf.CellFormat(colWidth, 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
