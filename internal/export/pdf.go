package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

const qrSize = 256

// RFQDocument is everything printed on an RFQ PDF.
type RFQDocument struct {
	RFQ         api.RFQ
	ProjectName string
	Suppliers   []string
	// DetailURL is encoded in the QR code.
	DetailURL string
}

// qrPNG encodes content as a PNG QR code.
func qrPNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// WriteRFQ renders a printable RFQ with a QR code linking to its page.
func WriteRFQ(w io.Writer, doc RFQDocument) error {
	qr, err := qrPNG(doc.DetailURL)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(foldDiacritics(s)) }

	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(140, 10, text("Cerere de Ofertă"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.MultiCell(140, 7, text(doc.RFQ.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Proiect", doc.ProjectName},
		{"Status", workflow.StatusLabel(doc.RFQ.Status)},
		{"Termen limită", doc.RFQ.DueDate},
	}
	if !doc.RFQ.CreatedAt.IsZero() {
		meta = append(meta, [2]string{"Creată la", doc.RFQ.CreatedAt.Format(dateLayout)})
	}
	for _, m := range meta {
		if m[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(35, 6, text(m[0]+":"))
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(105, 6, text(m[1]))
		pdf.Ln(6)
	}

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 160, 10, 40, 40, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, doc.DetailURL)

	pdf.SetY(max(pdf.GetY(), 52))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(10, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(120, 8, text("Descriere"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, text("Cantitate"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "UM", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range doc.RFQ.Items {
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(120, 8, text(item.RawText), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, formatQty(item.RequestedQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, text(workflow.UOMLabel(item.RequestedUOM)), "1", 1, "C", false, 0, "")
	}

	if len(doc.Suppliers) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 7, text("Furnizori invitați"))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, text(strings.Join(doc.Suppliers, ", ")), "", "L", false)
	}

	if doc.RFQ.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 7, "Note")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, text(doc.RFQ.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func formatQty(q float64) string {
	s := fmt.Sprintf("%.3f", q)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
