package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"cephai-backend/internal/ceph"
	"cephai-backend/internal/models"
)

// Artifacts holds the storage-relative locations of the files produced
// for one prediction. The leading "outputs/" segment matches the static
// route the files are served under.
type Artifacts struct {
	ImagePath  string
	ExcelPath  string
	ReportPath string
}

// Generator renders prediction artifacts (annotated image, spreadsheet,
// PDF report) into the configured output directory. Rendering is keyed
// by patient, so a re-run overwrites the previous files instead of
// accumulating duplicates.
type Generator struct {
	outputDir string
	log       zerolog.Logger
}

// NewGenerator builds a Generator writing under outputDir, creating the
// directory if needed.
func NewGenerator(outputDir string, log zerolog.Logger) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Generator{outputDir: outputDir, log: log}, nil
}

// RenderInput carries everything one render needs.
type RenderInput struct {
	PatientID   uint
	PatientName string
	Notes       *string
	ImageBytes  []byte
	Landmarks   models.Landmarks
}

// Render writes all three artifacts and returns their relative paths.
// On any failure it removes whatever it already wrote (best effort) and
// returns the error, so the caller never persists dangling references.
func (g *Generator) Render(in RenderInput) (*Artifacts, error) {
	imageName := fmt.Sprintf("ceph_%d_predicted.png", in.PatientID)
	excelName := fmt.Sprintf("ceph_%d_landmarks.xlsx", in.PatientID)
	reportName := fmt.Sprintf("ceph_%d_report.pdf", in.PatientID)

	imagePath := filepath.Join(g.outputDir, imageName)
	excelPath := filepath.Join(g.outputDir, excelName)
	reportPath := filepath.Join(g.outputDir, reportName)

	written := make([]string, 0, 3)
	cleanup := func() {
		for _, p := range written {
			if err := os.Remove(p); err != nil {
				g.log.Warn().Err(err).Str("path", p).Msg("failed to remove partial artifact")
			}
		}
	}

	if err := annotateImage(in.ImageBytes, in.Landmarks, imagePath); err != nil {
		cleanup()
		return nil, err
	}
	written = append(written, imagePath)

	if err := writeLandmarkSheet(in.Landmarks, excelPath); err != nil {
		cleanup()
		return nil, err
	}
	written = append(written, excelPath)

	measurements := ceph.Measure(in.Landmarks)
	interpretations := ceph.Interpret(measurements)

	err := writePDFReport(pdfInput{
		AnnotatedImagePath: imagePath,
		PatientName:        in.PatientName,
		PatientID:          in.PatientID,
		Notes:              in.Notes,
		Landmarks:          in.Landmarks,
		Measurements:       measurements,
		Interpretations:    interpretations,
	}, reportPath)
	if err != nil {
		cleanup()
		return nil, err
	}

	g.log.Info().
		Uint("patient_id", in.PatientID).
		Int("landmarks", len(in.Landmarks)).
		Msg("prediction artifacts rendered")

	return &Artifacts{
		ImagePath:  "outputs/" + imageName,
		ExcelPath:  "outputs/" + excelName,
		ReportPath: "outputs/" + reportName,
	}, nil
}
