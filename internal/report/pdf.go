package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cephai-backend/internal/ceph"
	"cephai-backend/internal/models"
)

type pdfInput struct {
	AnnotatedImagePath string
	PatientName        string
	PatientID          uint
	Notes              *string
	Landmarks          models.Landmarks
	Measurements       []ceph.Measurement
	Interpretations    []ceph.Interpretation
}

// writePDFReport renders the cephalometric report: annotated image on
// the left, angular measurements and interpretations on the right,
// generation timestamp and landmark count in the margins. Landscape A4
// to fit wide cephalograms.
func writePDFReport(in pdfInput, outputPath string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Cephalometric Analysis Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(30, 8, "Patient:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(100, 8, in.PatientName, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("ID: %d", in.PatientID), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// annotated image on the left half, aspect preserved by width fit
	imgTop := pdf.GetY()
	imgBoxW := pageW*0.5 - 20
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.ImageOptions(in.AnnotatedImagePath, 10, imgTop, imgBoxW, 0, false, opts, 0, "")

	// right column
	colX := pageW*0.5 + 10
	pdf.SetXY(colX, imgTop)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Angular Measurements", "", 1, "L", false, 0, "")
	pdf.SetX(colX)
	pdf.SetFont("Helvetica", "", 10)
	if len(in.Measurements) == 0 {
		pdf.CellFormat(0, 7, "(no angles)", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, "Measurement", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, "Degrees", "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, m := range in.Measurements {
			pdf.SetX(colX)
			pdf.CellFormat(50, 7, m.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", m.Degrees), "1", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(4)

	if len(in.Interpretations) > 0 {
		pdf.SetX(colX)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Interpretation / Diagnosis", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, it := range in.Interpretations {
			pdf.SetX(colX)
			pdf.MultiCell(pageW-colX-10, 6, it.Name+": "+it.Reading, "", "L", false)
		}
	}

	pdf.SetY(pageH - 18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(90, 6, "Report generated by CephAI", "", 0, "L", false, 0, "")
	if in.Notes != nil && *in.Notes != "" {
		pdf.CellFormat(110, 6, "Notes: "+*in.Notes, "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(110, 6, "", "", 0, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Total landmarks: %d", len(in.Landmarks)), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving pdf report: %w", err)
	}
	return nil
}
