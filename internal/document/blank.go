package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// BlankOptions configures NewBlank.
type BlankOptions struct {
	Pages int
	// Size is a gofpdf page size name such as "A4" or "Letter".
	Size  string
	Title string
	// Ruled draws writing lines on each page.
	Ruled bool
}

// NewBlank renders a simple practice document with numbered pages.
func NewBlank(opts BlankOptions) ([]byte, error) {
	if opts.Pages < 1 {
		return nil, fmt.Errorf("page count must be positive, got %d", opts.Pages)
	}
	if opts.Size == "" {
		opts.Size = "A4"
	}
	if opts.Title == "" {
		opts.Title = "Practice sheet"
	}

	pdf := gofpdf.New("P", "pt", opts.Size, "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("pdfannotations", true)
	pdf.SetMargins(48, 48, 48)
	pdf.SetAutoPageBreak(false, 0)
	for i := 0; i < opts.Pages; i++ {
		pdf.AddPage()
		w, h := pdf.GetPageSize()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetXY(48, 48)
		pdf.CellFormat(w-96, 24, opts.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(48, h-40)
		pdf.CellFormat(w-96, 12, fmt.Sprintf("Page %d of %d", i+1, opts.Pages), "", 0, "C", false, 0, "")
		if opts.Ruled {
			pdf.SetDrawColor(180, 200, 230)
			pdf.SetLineWidth(0.5)
			for y := 96.0; y < h-60; y += 24 {
				pdf.Line(48, y, w-48, y)
			}
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render blank pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render blank pdf: %w", err)
	}
	return buf.Bytes(), nil
}
