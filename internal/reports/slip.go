// Package reports renders printable artifacts for submitted documents: the
// A5 tracking slip handed to the sender and the QR code embedding the
// tracking URL.
package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/siamcare/doctrackgo/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

// TrackingQR renders the tracking URL as a PNG QR code.
func TrackingQR(trackURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(trackURL, qrcode.Medium, size)
}

// TrackingSlip renders a printable slip for one document with its id, the
// submission summary, and a QR code pointing at the tracking page.
func TrackingSlip(doc *models.Document, trackURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Document Tracking Slip", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, doc.ID, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	row("Sender", doc.SenderName)
	row("Department", doc.Department)
	row("Type", doc.DocumentType)
	row("Week", doc.WeekRange)
	row("Status", string(doc.Status))
	row("Submitted", doc.SubmittedDate)

	png, err := TrackingQR(trackURL, 256)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("track-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("track-qr", 49, pdf.GetY()+4, 50, 50, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 58)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Scan to track this document", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render tracking slip: %w", err)
	}
	return buf.Bytes(), nil
}
