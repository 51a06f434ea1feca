package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF renders a titled table as a PDF download. The first column gets extra
// width since it typically carries the student name.
func PDF(name, title string, headers []string, rows [][]string) (*File, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := columnWidths(len(headers), 277)

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i := range headers {
			var value string
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return &File{Name: name + ".pdf", ContentType: "application/pdf", Data: buf.Bytes()}, nil
}

func columnWidths(columns int, total float64) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = total
		return widths
	}
	first := total / float64(columns) * 1.5
	rest := (total - first) / float64(columns-1)
	widths[0] = first
	for i := 1; i < columns; i++ {
		widths[i] = rest
	}
	return widths
}
