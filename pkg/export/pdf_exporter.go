package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptField is a labelled line on a payment receipt.
type ReceiptField struct {
	Label string
	Value string
}

// Receipt describes a single-document voucher: an institution heading, a
// reference line and a list of labelled fields.
type Receipt struct {
	Institution string
	Title       string
	Reference   string
	Fields      []ReceiptField
}

// PDFExporter renders datasets and receipts into PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReceipt creates a one-page voucher PDF for a payment.
func (e *PDFExporter) RenderReceipt(receipt Receipt) ([]byte, error) {
	if len(receipt.Fields) == 0 {
		return nil, fmt.Errorf("receipt requires at least one field")
	}
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()

	if receipt.Institution != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 8, receipt.Institution, "", 1, "C", false, 0, "")
	}
	title := receipt.Title
	if title == "" {
		title = "Recibo de pago"
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, strings.ToUpper(title), "", 1, "C", false, 0, "")
	if receipt.Reference != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, receipt.Reference, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, field := range receipt.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, field.Label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, field.Value, "", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
