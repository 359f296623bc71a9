package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is one labelled value on a sheet.
type Field struct {
	Label string
	Value string
}

// Section groups fields under a heading.
type Section struct {
	Heading string
	Fields  []Field
}

// Sheet is a single-document key/value summary.
type Sheet struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders sheets with gofpdf core fonts.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the sheet on A4 pages, two columns per field.
func (e *PDFExporter) Render(sheet Sheet) ([]byte, error) {
	if sheet.Title == "" {
		return nil, fmt.Errorf("pdf sheet requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(sheet.Title), "", 1, "L", false, 0, "")
	if sheet.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, tr(sheet.Subtitle), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	const labelWidth, valueWidth = 60.0, 120.0
	for _, section := range sheet.Sections {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(labelWidth+valueWidth, 8, tr(section.Heading), "", 1, "L", true, 0, "")
		for _, field := range section.Fields {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(labelWidth, 7, tr(field.Label), "B", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			value := field.Value
			if value == "" {
				value = "-"
			}
			pdf.MultiCell(valueWidth, 7, tr(value), "B", "L", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
