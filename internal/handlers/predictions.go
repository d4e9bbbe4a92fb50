package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cephai-backend/internal/inference"
	"cephai-backend/internal/models"
	"cephai-backend/internal/report"
)

var nowFunc = time.Now

func reportInput(p *models.Patient, imageBytes []byte, landmarks models.Landmarks) report.RenderInput {
	return report.RenderInput{
		PatientID:   p.ID,
		PatientName: p.Name,
		Notes:       p.Notes,
		ImageBytes:  imageBytes,
		Landmarks:   landmarks,
	}
}

// Predict uploads a cephalometric image, runs landmark detection and
// persists exactly one Prediction row. All artifacts are written before
// the row is inserted; any artifact failure aborts the request so no
// row ever references files that do not exist.
func (h *Handler) Predict(c *gin.Context) {
	start := nowFunc()

	patientID, err := parseIDParam(c, "patient_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patient ID format"})
		return
	}

	user := currentUser(c)
	var patient models.Patient
	if err := h.scopedPatientQuery(user, patientID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read uploaded file"})
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to prepare upload directory", "details": err.Error()})
		return
	}
	uploadPath := filepath.Join(h.cfg.UploadDir, fmt.Sprintf("%d_%s", patientID, filepath.Base(header.Filename)))
	if err := os.WriteFile(uploadPath, imageBytes, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store uploaded file", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.InferenceTimeout)
	defer cancel()

	result, err := h.engine.Predict(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, inference.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			h.log.Error().Err(err).Msg("inference service unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Inference service unavailable"})
			return
		}
		h.log.Error().Err(err).Msg("inference failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Inference failed", "details": err.Error()})
		return
	}

	artifacts, err := h.reports.Render(reportInput(&patient, imageBytes, result.Landmarks))
	if err != nil {
		h.log.Error().Err(err).Uint("patient_id", patient.ID).Msg("artifact generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to generate prediction artifacts", "details": err.Error()})
		return
	}

	pred := models.Prediction{
		PatientID:    patient.ID,
		ModelName:    h.cfg.ModelName,
		ModelVersion: result.ModelVersion,
		Landmarks:    result.Landmarks,
		ImagePath:    artifacts.ImagePath,
		ExcelPath:    artifacts.ExcelPath,
		ReportPath:   artifacts.ReportPath,
	}
	if err := h.db.Create(&pred).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save prediction", "details": err.Error()})
		return
	}

	processing := math.Round(nowFunc().Sub(start).Seconds()*1000) / 1000

	c.JSON(http.StatusOK, gin.H{
		"id":              pred.ID,
		"patient_id":      pred.PatientID,
		"model_name":      pred.ModelName,
		"model_version":   pred.ModelVersion,
		"created_at":      pred.CreatedAt,
		"status":          "completed",
		"processing_time": processing,
		"num_landmarks":   len(pred.Landmarks),
		"output_image":    h.resolveArtifactURL(pred.ImagePath),
		"excel_file":      h.resolveArtifactURL(pred.ExcelPath),
		"report_file":     h.resolveArtifactURL(pred.ReportPath),
		"landmarks":       pred.Landmarks,
	})
}

// GetCephalogram returns a patient together with its latest prediction,
// artifact paths resolved to fetchable URLs. Fields tied to the
// prediction are null when the patient has none yet.
func (h *Handler) GetCephalogram(c *gin.Context) {
	patientID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid cephalogram ID format"})
		return
	}

	user := currentUser(c)
	var patient models.Patient
	if err := h.scopedPatientQuery(user, patientID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cephalogram not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	resp := gin.H{
		"id":          patient.ID,
		"fileName":    patient.Name,
		"dob":         patient.DOB,
		"notes":       patient.Notes,
		"landmarks":   nil,
		"image_url":   nil,
		"excel_file":  nil,
		"report_file": nil,
	}

	var pred models.Prediction
	err = h.db.Where("patient_id = ?", patient.ID).Order("created_at desc, id desc").First(&pred).Error
	if err == nil {
		resp["landmarks"] = pred.Landmarks
		resp["image_url"] = h.resolveArtifactURL(pred.ImagePath)
		resp["excel_file"] = h.resolveArtifactURL(pred.ExcelPath)
		resp["report_file"] = h.resolveArtifactURL(pred.ReportPath)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPredictions lists a patient's predictions ordered by creation
// time, most recent last.
func (h *Handler) ListPredictions(c *gin.Context) {
	patientID, err := parseIDParam(c, "patient_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid patient ID format"})
		return
	}

	user := currentUser(c)
	var patient models.Patient
	if err := h.scopedPatientQuery(user, patientID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	var preds []models.Prediction
	if err := h.db.Where("patient_id = ?", patient.ID).Order("created_at asc, id asc").Find(&preds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error fetching predictions", "details": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(preds))
	for i := range preds {
		out = append(out, h.predictionProjection(&preds[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetPrediction returns one stored prediction. Visibility follows the
// owning patient's scope.
func (h *Handler) GetPrediction(c *gin.Context) {
	predID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prediction ID format"})
		return
	}

	var pred models.Prediction
	if err := h.db.Where("id = ?", predID).First(&pred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Prediction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	user := currentUser(c)
	var patient models.Patient
	if err := h.scopedPatientQuery(user, pred.PatientID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Prediction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.predictionProjection(&pred))
}

func (h *Handler) predictionProjection(pred *models.Prediction) gin.H {
	return gin.H{
		"id":            pred.ID,
		"patient_id":    pred.PatientID,
		"model_name":    pred.ModelName,
		"model_version": pred.ModelVersion,
		"created_at":    pred.CreatedAt,
		"status":        "completed",
		"num_landmarks": len(pred.Landmarks),
		"output_image":  h.resolveArtifactURL(pred.ImagePath),
		"excel_file":    h.resolveArtifactURL(pred.ExcelPath),
		"report_file":   h.resolveArtifactURL(pred.ReportPath),
		"landmarks":     pred.Landmarks,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
